// Package lib holds modules that do not fit strictly into other layers:
// text helpers, the image host policy, calendar export, background jobs
// (asynq) and the transactional email client (Resend).
package lib
