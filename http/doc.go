// Package http delivers storezip archives over HTTP.
//
// Handler builds a bundle per request and serves it as an application/zip
// download. Uploader submits a built archive to a backend import endpoint
// as a multipart file upload.
package http
