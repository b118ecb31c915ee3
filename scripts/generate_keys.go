//go:build ignore

// Generates the JWT secrets, an API key and a seed admin password.
//
//	go run scripts/generate_keys.go                 # print to stdout
//	go run scripts/generate_keys.go -env .env       # fill missing keys in .env
//	go run scripts/generate_keys.go -env .env -force
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"slices"

	"github.com/joho/godotenv"
)

type secret struct {
	name  string
	bytes int
}

var secrets = []secret{
	{name: "JWT_SECRET_KEY", bytes: 32},
	{name: "JWT_REFRESH_SECRET_KEY", bytes: 32},
	{name: "API_KEYS", bytes: 24},
	{name: "ADMIN_PASSWORD", bytes: 18},
}

func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func main() {
	envFile := flag.String("env", "", "dotenv file to update instead of printing")
	force := flag.Bool("force", false, "replace keys already present in the dotenv file")
	flag.Parse()

	env := map[string]string{}
	if *envFile != "" {
		existing, err := godotenv.Read(*envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("read %s: %v", *envFile, err)
		}
		if existing != nil {
			env = existing
		}
	}

	var generated []string
	for _, s := range secrets {
		if _, ok := env[s.name]; ok && !*force {
			continue
		}
		key, err := randomKey(s.bytes)
		if err != nil {
			log.Fatalf("generate %s: %v", s.name, err)
		}
		env[s.name] = key
		generated = append(generated, s.name)
	}
	if _, ok := env["ADMIN_EMAIL"]; !ok {
		env["ADMIN_EMAIL"] = "admin@example.com"
	}

	if *envFile == "" {
		for _, name := range slices.Sorted(maps.Keys(env)) {
			fmt.Printf("%s=%s\n", name, env[name])
		}
		return
	}

	if err := godotenv.Write(env, *envFile); err != nil {
		log.Fatalf("write %s: %v", *envFile, err)
	}
	fmt.Printf("Updated %s: %v\n", *envFile, generated)
	fmt.Println("Keep it out of version control and use separate keys per environment.")
}
