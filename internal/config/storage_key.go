package config

import (
	"fmt"
)

type StorageKeyStruct struct {
	// SessionUser holds the JSON-encoded signed-in user.
	SessionUser string
	// SessionToken holds the bearer credential. This is the only credential
	// key the portal reads or writes.
	SessionToken string
}

// RedisKey returns the namespaced Redis key for a durable storage entry.
func (k *StorageKeyStruct) RedisKey(namespace, key string) string {
	return fmt.Sprintf("portal:%s:%s", namespace, key)
}

var StorageKey = &StorageKeyStruct{
	SessionUser:  "user",
	SessionToken: "token",
}
