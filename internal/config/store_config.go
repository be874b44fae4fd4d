package config

type StoreConfig interface {
	GetDatabaseURL() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}
