package config

type CacheKeyStruct struct{}

// DocentesPublicKey returns the cache key for the public docente list.
func (r *CacheKeyStruct) DocentesPublicKey() string {
	return "docentes:public"
}

var CacheKey = &CacheKeyStruct{}
