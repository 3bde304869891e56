// Package upload implements the upload-and-submit flow behind every edit
// page: image files are uploaded concurrently as independent tasks, their
// URLs collected, and the form draft is submitted only once no upload is
// still in flight.
//
// A Pipeline belongs to one edit page. StartUpload returns immediately with
// a Batch whose tasks move Pending -> Uploading -> Succeeded|Failed on their
// own goroutines; each transition is published to subscribers. Submit runs
// the local checks (pending uploads, unchanged edit, required fields) before
// handing the draft to the caller's SubmitFunc. Draft values are only ever
// changed through Apply.
package upload
