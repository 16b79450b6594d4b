package fingerprint

// IsBinary reports whether content looks like binary data. It checks the
// first 512 bytes for a null byte, which text files do not contain.
func IsBinary(data []byte) bool {
	checkSize := 512
	if len(data) < checkSize {
		checkSize = len(data)
	}
	for i := 0; i < checkSize; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
