//go:build integration

// Package testutil starts the MongoDB instance the integration tests run against.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoImage is the server version the repositories are tested against.
const MongoImage = "mongo:7.0"

// maxDBNamePrefix leaves room for the random suffix within MongoDB's 64 byte limit.
const maxDBNamePrefix = 40

// MongoContainer is a running MongoDB testcontainer.
type MongoContainer struct {
	container testcontainers.Container
	URI       string
}

// StartMongo starts a standalone MongoDB container.
func StartMongo(ctx context.Context) (*MongoContainer, error) {
	c, err := mongodb.Run(ctx, MongoImage)
	if err != nil {
		return nil, fmt.Errorf("start mongodb container: %w", err)
	}

	uri, err := c.ConnectionString(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}

	return &MongoContainer{container: c, URI: uri}, nil
}

// Terminate stops and removes the container.
func (m *MongoContainer) Terminate(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	if err := m.container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate mongodb container: %w", err)
	}
	return nil
}

var (
	shared     *MongoContainer
	sharedErr  error
	sharedOnce sync.Once
)

// RunWithSharedMongo starts one container for the whole package, runs the
// tests and removes the container. Use it from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithSharedMongo(m))
//	}
func RunWithSharedMongo(m *testing.M) int {
	ctx := context.Background()

	sharedOnce.Do(func() {
		shared, sharedErr = StartMongo(ctx)
	})
	if sharedErr != nil {
		fmt.Fprintf(os.Stderr, "integration tests need docker: %v\n", sharedErr)
		return 1
	}

	code := m.Run()

	if err := shared.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return code
}

// SharedMongoURI returns the URI of the package container.
func SharedMongoURI() string {
	if shared == nil {
		panic("testutil: shared mongodb not started, call RunWithSharedMongo from TestMain")
	}
	return shared.URI
}

// DatabaseName derives a database name unique to the running test, so tests
// sharing one container never see each other's documents.
func DatabaseName(t testing.TB) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$', '*', '<', '>', ':', '|', '?':
			return '_'
		}
		return r
	}, t.Name())

	for len(name) > maxDBNamePrefix {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}

	return name + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
