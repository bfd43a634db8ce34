package redis

// PutScriptHash exposes the save script's SHA1 for scripted clients.
func PutScriptHash() string { return putScript.Hash() }
