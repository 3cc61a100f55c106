package config

const folderEnvVar = "FOLDER"

type StorageConfig interface {
	GetDataFolder() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}
