// Package apply writes decoded manifest objects to a cluster.
//
// Each object is created first. When the create is rejected by the API server
// for any reason the same body is sent once more as a server-side apply under
// the controller's field manager. Objects are processed strictly in order and
// the first failure halts the run; objects already written stay written.
package apply
