// Package main provides the medtrack administrative command-line tool.
//
// Usage:
//
//	medtrack-admin [-config path] <command> [arguments]
//
// Commands:
//
//	user create <username> <email> <password>   create an active account
//	user activate <email>                       activate an account
//	user promote <email>                        grant administrative privileges
//	user show <email>                           print an account
//	token issue <kind> <email> <ttl>            issue a token (activate|reset|session)
//	dataset load <db-path> <json-path>          import the medicines register
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/medtrack/internal/config"
	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/medsearch"
	"github.com/prn-tf/medtrack/internal/pkg/crypto"
	"github.com/prn-tf/medtrack/internal/repository"
	"github.com/prn-tf/medtrack/internal/store"
	memorystore "github.com/prn-tf/medtrack/internal/store/memory"
	redisstore "github.com/prn-tf/medtrack/internal/store/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	var err error
	switch args[0] {
	case "user":
		err = userCommand(ctx, *configPath, args[1:])
	case "token":
		err = tokenCommand(ctx, *configPath, args[1:])
	case "dataset":
		err = datasetCommand(ctx, args[1:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: medtrack-admin [-config path] <command> [arguments]

commands:
  user create <username> <email> <password>
  user activate <email>
  user promote <email>
  user show <email>
  token issue <kind> <email> <ttl>
  dataset load <db-path> <json-path>`)
}

func userCommand(ctx context.Context, configPath string, args []string) error {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	users, _, cleanup, err := openRepos(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	switch args[0] {
	case "create":
		if len(args) != 4 {
			return fmt.Errorf("usage: user create <username> <email> <password>")
		}
		username, email, password := args[1], args[2], args[3]

		hash, err := crypto.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user := domain.NewUser(username, email, hash)
		user.IsActive = true
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		fmt.Printf("created user %s\n", user.ID)
		return nil

	case "activate":
		if len(args) != 2 {
			return fmt.Errorf("usage: user activate <email>")
		}
		user, err := userByEmail(ctx, users, args[1])
		if err != nil {
			return err
		}
		if user.IsActive {
			fmt.Printf("user %s already active\n", user.ID)
			return nil
		}
		user.IsActive = true
		user.UpdatedAt = time.Now().UTC()
		if err := users.Save(ctx, user, user.Username, user.Email); err != nil {
			return err
		}
		fmt.Printf("activated user %s\n", user.ID)
		return nil

	case "promote":
		if len(args) != 2 {
			return fmt.Errorf("usage: user promote <email>")
		}
		user, err := userByEmail(ctx, users, args[1])
		if err != nil {
			return err
		}
		if user.IsAdmin {
			fmt.Printf("user %s already admin\n", user.ID)
			return nil
		}
		user.IsAdmin = true
		user.UpdatedAt = time.Now().UTC()
		if err := users.Save(ctx, user, user.Username, user.Email); err != nil {
			return err
		}
		fmt.Printf("promoted user %s\n", user.ID)
		return nil

	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: user show <email>")
		}
		user, err := userByEmail(ctx, users, args[1])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil

	default:
		return fmt.Errorf("unknown user command %q", args[0])
	}
}

func tokenCommand(ctx context.Context, configPath string, args []string) error {
	if len(args) != 4 || args[0] != "issue" {
		return fmt.Errorf("usage: token issue <kind> <email> <ttl>")
	}

	var kind repository.TokenKind
	switch args[1] {
	case "activate":
		kind = repository.TokenActivation
	case "reset":
		kind = repository.TokenPasswordReset
	case "session":
		kind = repository.TokenSession
	default:
		return fmt.Errorf("unknown token kind %q (want activate, reset or session)", args[1])
	}

	ttl, err := time.ParseDuration(args[3])
	if err != nil {
		return fmt.Errorf("invalid ttl %q: %w", args[3], err)
	}

	users, tokens, cleanup, err := openRepos(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	userID, err := users.IDByEmail(ctx, args[2])
	if err != nil {
		return err
	}
	token, err := tokens.Issue(ctx, kind, userID, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func datasetCommand(ctx context.Context, args []string) error {
	if len(args) != 3 || args[0] != "load" {
		return fmt.Errorf("usage: dataset load <db-path> <json-path>")
	}

	start := time.Now()
	count, err := medsearch.LoadDataset(ctx, args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Printf("imported %d medicines in %s\n", count, time.Since(start).Round(time.Millisecond))
	return nil
}

func userByEmail(ctx context.Context, users *repository.Users, email string) (*domain.User, error) {
	userID, err := users.IDByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", email, err)
	}
	return users.GetByID(ctx, userID)
}

func openRepos(ctx context.Context, configPath string) (*repository.Users, *repository.Tokens, func(), error) {
	cfg := config.MustLoad(configPath)

	var (
		kv      store.Store
		cleanup func()
	)
	switch cfg.Store.Driver {
	case "memory":
		mem := memorystore.New()
		kv, cleanup = mem, mem.Stop
	default:
		rs, err := redisstore.Open(ctx, redisstore.Config{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		kv, cleanup = rs, func() { _ = rs.Close() }
	}

	keys := repository.NewKeys(cfg.Environment)
	return repository.NewUsers(kv, keys, log.Logger), repository.NewTokens(kv, keys, log.Logger), cleanup, nil
}
