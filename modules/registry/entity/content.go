package entity

// ContentPayload is a fully resolved piece of content, decrypted when the
// stored object was encrypted.
type ContentPayload struct {
	Data        []byte
	ContentType string
	FileName    string
	Encrypted   bool
}
