// Package client is the gRPC client spellctl uses to call the spell service.
// Requests are plain maps encoded as google.protobuf.Struct; the access token
// is attached to every method that is not public.
package client
