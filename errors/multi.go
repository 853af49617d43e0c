package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the given errors is non-nil, nil is returned. If exactly one
// error is non-nil, it is returned unchanged. Otherwise a collection is
// returned. Its ABCI code is the code of the first error.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack implements unpacker interface.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode returns the code of the first error from the collection.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}
