// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/resolvit"
	"github.com/poiesic/resolvit/resolve"
)

var (
	dbPath = flag.String("db", "./address_db", "corpus database directory")
	limit  = flag.Int("limit", 5, "maximum results per query")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	engine, err := resolvit.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()
	if args := flag.Args(); len(args) > 0 {
		query(ctx, engine, strings.Join(args, " "))
		return
	}

	// No query on the command line: read queries interactively.
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("query> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			query(ctx, engine, line)
		}
		fmt.Print("query> ")
	}
}

func query(ctx context.Context, engine *resolvit.Engine, q string) {
	result, err := engine.Resolve(ctx, q, *limit)
	if err != nil {
		if errors.Is(err, resolve.ErrIndexUnavailable) {
			fmt.Println("index not built yet; seed the corpus first")
			return
		}
		fmt.Printf("resolve failed: %v\n", err)
		return
	}

	fmt.Printf("Found %d hits\n", len(result.Results))
	for i, hit := range result.Results {
		fmt.Printf("%d: '%s' (%d)[%0.1f]\n", i, hit.Display, hit.Id, hit.Score)
	}
}
