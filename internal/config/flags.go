package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the server command-line flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-driver storage driver (postgres, sqlite, memory)
//	-d database DSN
//	-redis redis address for distributed locking
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-duration token duration (e.g., "24h")
//	-admin-key-hash bcrypt hash of the admin key
//	-fail-policy behaviour when the store is unavailable (open, closed)
//	-store-timeout deadline for store operations (e.g., "3s")
//	-tiers tier catalog YAML file
//	-request-timeout request timeout (e.g., "30s", "1m")
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("scrapegate", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var driver, databaseDSN, redisAddr string
	var jsonConfigPath string
	var tokenSignKey, adminKeyHash string
	var tokenDuration, storeTimeout, requestTimeout time.Duration
	var failPolicy, tierCatalog string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&driver, "driver", "", "Storage driver: postgres, sqlite or memory")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisAddr, "redis", "", "Redis address for distributed locking")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 24h)")
	fs.StringVar(&adminKeyHash, "admin-key-hash", "", "Bcrypt hash of the admin key")
	fs.StringVar(&failPolicy, "fail-policy", "", "Behaviour when the store is unavailable: open or closed")
	fs.DurationVar(&storeTimeout, "store-timeout", 0, "Deadline for store operations (e.g., 3s)")
	fs.StringVar(&tierCatalog, "tiers", "", "Tier catalog YAML file")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:    tokenSignKey,
			TokenDuration:   tokenDuration,
			AdminKeyHash:    adminKeyHash,
			StoreTimeout:    storeTimeout,
			FailPolicy:      failPolicy,
			TierCatalogFile: tierCatalog,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
			Redis: Redis{
				Addr: redisAddr,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
