// Package handler is the HTTP layer behind the router.
//
// Handlers bind and validate requests with the validation package, call the
// service layer and write JSON (or file) responses. Errors are returned to
// the global error handler rather than written here.
package handler
