/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Every extension keeps a single configuration object under the "_c:<package>"
key. The object is loaded from the genesis file with InitConfig and may later
be changed by its owner with a message processed by
UpdateConfigurationHandler.
*/
package gconf
