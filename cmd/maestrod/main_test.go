// maestro/cmd/maestrod/main_test.go

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maestro/pkg/report"
	"maestro/pkg/store"
)

// Mock implementations for testing purposes
type MockStoreFactory struct{}

func (f *MockStoreFactory) NewStore(ctx context.Context, config *Config) (store.Store, error) {
	return store.NewMemoryStore(), nil
}

func writeReportFile(t *testing.T) string {
	t.Helper()
	rep, err := report.New(
		[]string{"placement", "placement_type", "customer_id", "ad_group_id", "clicks"},
		[][]interface{}{
			{"bad.example.com", "WEBSITE", "42", 7, 250},
			{"good.example.com", "WEBSITE", "42", 7, 3},
		},
	)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, rep.SaveJSON(path))
	return path
}

func TestParseConfig(t *testing.T) {
	viper.Reset()

	configFile, err := os.CreateTemp("", "maestro_config.json")
	require.NoError(t, err)
	defer os.Remove(configFile.Name())

	configContent := `{
		"report.file": "placements.json",
		"report.id_column": "placement",
		"rules": ["clicks > 100", "WEBSITE_INFO:title contains cheap"],
		"actor.name": "placement",
		"actor.exclusion_level": "CAMPAIGN",
		"logging.level": "debug",
		"logging.output": "console",
		"redis.address": "localhost:6379",
		"redis.password": "password",
		"redis.database": 1,
		"redis.ttl_hours": 6,
		"dashboard.enabled": true,
		"dashboard.port": 9090,
		"dashboard.update_interval": 15
	}`
	_, err = configFile.WriteString(configContent)
	require.NoError(t, err)
	configFile.Close()

	args := []string{"maestrod", "--config", configFile.Name()}
	config, err := parseConfig(args)
	require.NoError(t, err)

	assert.Equal(t, "placements.json", config.ReportFile)
	assert.Equal(t, []string{"clicks > 100", "WEBSITE_INFO:title contains cheap"}, config.Rules)
	assert.Equal(t, "placement", config.ActorName)
	assert.Equal(t, "CAMPAIGN", config.ExclusionLevel)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "localhost:6379", config.RedisAddress)
	assert.Equal(t, "password", config.RedisPassword)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, 6, config.RedisTTLHours)
	assert.True(t, config.DashboardEnabled)
	assert.Equal(t, 9090, config.DashboardPort)
	assert.Equal(t, 15, config.DashboardInterval)
}

func TestParseConfigDefaults(t *testing.T) {
	viper.Reset()

	configFile, err := os.CreateTemp("", "maestro_config.json")
	require.NoError(t, err)
	defer os.Remove(configFile.Name())
	_, err = configFile.WriteString(`{"report.file": "placements.json"}`)
	require.NoError(t, err)
	configFile.Close()

	config, err := parseConfig([]string{"maestrod", "--config", configFile.Name()})
	require.NoError(t, err)

	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "console", config.LogDestination)
	assert.Equal(t, "placement", config.IDColumn)
	assert.Equal(t, "placement", config.ActorName)
	assert.Equal(t, "AD_GROUP", config.ExclusionLevel)
	assert.Equal(t, 24, config.RedisTTLHours)
	assert.False(t, config.DashboardEnabled)
	assert.Equal(t, 8080, config.DashboardPort)
}

func TestSetupDependencies(t *testing.T) {
	config := &Config{
		ReportFile:     "placements.json",
		ActorName:      "placement",
		ExclusionLevel: "AD_GROUP",
		IDColumn:       "placement",
	}

	deps, err := setupDependencies(context.Background(), config, &MockStoreFactory{}, &RealExecutorFactory{})
	require.NoError(t, err)

	assert.NotNil(t, deps.Store)
	assert.NotNil(t, deps.Executor)
}

func TestSetupDependenciesUnknownActor(t *testing.T) {
	config := &Config{
		ActorName:      "billboard",
		ExclusionLevel: "AD_GROUP",
	}

	_, err := setupDependencies(context.Background(), config, &MockStoreFactory{}, &RealExecutorFactory{})
	assert.ErrorContains(t, err, "unsupported actor")
}

func TestRealStoreFactory(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	factory := &RealStoreFactory{}

	memStore, err := factory.NewStore(context.Background(), &Config{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, memStore)

	redisStore, err := factory.NewStore(context.Background(), &Config{RedisAddress: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &store.RedisStore{}, redisStore)
}

func TestRun(t *testing.T) {
	viper.Reset()

	reportPath := writeReportFile(t)

	configFile, err := os.CreateTemp("", "maestro_config.json")
	require.NoError(t, err)
	defer os.Remove(configFile.Name())

	configContent := fmt.Sprintf(`{
		"report.file": %q,
		"rules": ["clicks > 100"]
	}`, reportPath)
	_, err = configFile.WriteString(configContent)
	require.NoError(t, err)
	configFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	args := []string{"maestrod", "--config", configFile.Name()}
	err = run(ctx, args, &RealStoreFactory{}, &RealExecutorFactory{})
	assert.NoError(t, err)
}

func TestFileSource(t *testing.T) {
	path := writeReportFile(t)
	source := &fileSource{path: path}

	rep, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Len())

	missing := &fileSource{path: filepath.Join(t.TempDir(), "absent.json")}
	_, err = missing.Fetch(context.Background())
	assert.Error(t, err)
}
