package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_GetDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "mysql",
			cfg:  DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Database: "support"},
			want: "u:p@tcp(db:3306)/support?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "postgres default sslmode",
			cfg:  DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p@ss", Database: "support"},
			want: "postgres://u:p%40ss@db:5432/support?sslmode=disable",
		},
		{
			name: "sqlite",
			cfg:  DatabaseConfig{Driver: "sqlite", Database: "./data/app.db"},
			want: "./data/app.db",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetDSN())
		})
	}
}

func TestStorageConfig_MaxUploadBytes(t *testing.T) {
	cfg := StorageConfig{MaxUploadMB: 8}
	assert.Equal(t, int64(8*1024*1024), cfg.MaxUploadBytes())
}
