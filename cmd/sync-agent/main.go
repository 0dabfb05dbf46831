// Command sync-agent keeps a locally persisted cart or wishlist in sync
// with the storefront API: mutations apply locally first and are pushed
// to the server on a debounce, so a burst of edits becomes one request.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"cozyberries-backend/application/sync"
	"cozyberries-backend/domain/collections"

	"go.uber.org/zap"
)

func main() {
	baseURL := envOr("API_BASE_URL", "http://localhost:8080")
	token := os.Getenv("AUTH_TOKEN")
	statePath := envOr("LOCAL_STATE_PATH", ".cozyberries")
	kind := collections.Kind(envOr("COLLECTION_KIND", "cart"))
	if !kind.Valid() {
		log.Fatalf("COLLECTION_KIND must be cart or wishlist, got %q", kind)
	}

	debounce := time.Second
	if raw := os.Getenv("SYNC_DEBOUNCE_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			debounce = time.Duration(ms) * time.Millisecond
		}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	store, err := sync.NewFileStore(statePath + "/" + string(kind) + ".json")
	if err != nil {
		log.Fatalf("Failed to open local state: %v", err)
	}

	remote := sync.NewHTTPRemote(baseURL, kind, token)
	syncer, err := sync.NewSyncer(kind, store, remote, debounce, logger)
	if err != nil {
		log.Fatalf("Failed to start syncer: %v", err)
	}
	defer func() {
		syncer.Flush()
		syncer.Close()
	}()

	fmt.Printf("%s agent ready. Commands: signin, signout, add <id> [qty], remove <id>, qty <id> <n>, clear, show, flush, quit\n", kind)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "signin":
			if token == "" {
				fmt.Println("AUTH_TOKEN is not set")
				continue
			}
			if err := syncer.SignIn(context.Background()); err != nil {
				fmt.Printf("sign-in failed: %v\n", err)
				continue
			}
			fmt.Println("signed in, collections merged")
		case "signout":
			syncer.SignOut()
			fmt.Println("signed out, local copy kept")
		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <product-id> [qty]")
				continue
			}
			qty := 1
			if len(fields) > 2 {
				qty, _ = strconv.Atoi(fields[2])
			}
			if err := syncer.Add(collections.LineItem{ProductID: fields[1], Quantity: qty}); err != nil {
				fmt.Printf("add failed: %v\n", err)
			}
		case "remove":
			if len(fields) < 2 {
				fmt.Println("usage: remove <product-id>")
				continue
			}
			if err := syncer.Remove(fields[1]); err != nil {
				fmt.Printf("remove failed: %v\n", err)
			}
		case "qty":
			if len(fields) < 3 {
				fmt.Println("usage: qty <product-id> <n>")
				continue
			}
			n, _ := strconv.Atoi(fields[2])
			if err := syncer.UpdateQuantity(fields[1], n); err != nil {
				fmt.Printf("update failed: %v\n", err)
			}
		case "clear":
			if err := syncer.Clear(); err != nil {
				fmt.Printf("clear failed: %v\n", err)
			}
		case "show":
			items := syncer.Items()
			if len(items) == 0 {
				fmt.Println("(empty)")
				continue
			}
			for _, item := range items {
				fmt.Printf("%s x%d\n", item.ProductID, item.Quantity)
			}
		case "flush":
			syncer.Flush()
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
