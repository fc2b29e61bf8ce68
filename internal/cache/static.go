package cache

var staticCache = NewCache[string, string]()

// GetStaticHash returns the ETag computed for an embedded asset's URL path.
func GetStaticHash(path string) (string, bool) {
	return staticCache.Get(path)
}

func SetStaticHash(path, hash string) {
	staticCache.Set(path, hash)
}
