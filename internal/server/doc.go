// Package server exposes the workflows as a JSON API on a loopback address.
//
// The server has no transport security and binds to localhost only; the
// configuration refuses any other address. Authentication is a session
// cookie issued after the master passphrase is verified. Sessions live in
// memory and end on logout, on a new login from the same client, or when
// the process exits. Login attempts are rate limited per client address.
//
// Routes:
//
//	GET  /api/status                 {master_set}
//	POST /api/setup                  {pass1, pass2}
//	POST /api/login                  {pass}
//	POST /api/logout
//	GET  /api/dashboard              counts
//	GET  /api/metrics                operation counters
//	GET  /api/notes?match=glob       note file names
//	POST /api/notes                  {title, content} -> {file, key}
//	POST /api/notes/{file}/open      {key} -> {file, title, content}
//	POST /api/notes/{file}/save      {current_key, title, content} -> {file, key}
//	GET  /api/vault                  entries
//	POST /api/vault                  entry
//	PUT  /api/vault/{id}             entry
//	POST /api/vault/rekey            -> {resealed, skipped}
//	GET  /api/folders                records
//	POST /api/folders                {folder_path, action}
//
// Every route except status, setup, and login needs a session. A wrong note
// key is always reported as "invalid key" and nothing more.
package server
