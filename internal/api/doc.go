// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and
// the book service.
//
// Handlers return errors instead of writing failure responses themselves;
// Wrap forwards those errors to HandleError, the single place that decides
// the status code and public message of a failed request.
package api
