// Package preview serves rendered templates over HTTP for local development.
//
// Routes:
//
//	GET /                       templates and languages as JSON
//	GET /{template}             rendered HTML (?lang=en&data={"name":"Ann"})
//	GET /{template}/text        derived plain text
//	GET /{template}/message     subject, HTML and text as JSON
//	GET /health/live            liveness probe
//	GET /health/ready           readiness probe (template directory is listable)
//
// Without ?lang the Accept-Language header selects among the loaded
// translations.
//
// Every render reads the template directory again unless the renderer was
// configured to cache templates, so edits show up on reload.
package preview
