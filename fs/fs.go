// Package appfs exposes the embedded static assets of the project:
// database migrations and email templates.
package appfs

import "embed"

//go:embed migrations assets/templates/email
var FS embed.FS
