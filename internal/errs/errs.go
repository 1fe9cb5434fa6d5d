// Package errs defines the API error envelope and its constructors.
//
// Every failure that reaches a client is rendered as an HTTPError so the
// JSON shape stays the same across endpoints:
//
//	{ "code": "NOT_FOUND", "message": "...", "status": 404,
//	  "override": false, "errors": [...], "action": null }
package errs
