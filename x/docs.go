/*
Package x contains the shared building blocks of extensions.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct an application.
Authentication is always reached through the Authenticator
interface so that handlers do not depend on how signers are
proven.
*/
package x
