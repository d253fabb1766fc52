package config

import (
	"flag"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-base-url public base URL of this node
//	-d database DSN
//	-artifacts-dir deployment artifact directory
//	-c/-config json file path with configs
//	-cluster-bootstrap run cluster bootstrap at startup
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var baseURL string
	var databaseDSN string
	var artifactsDir string
	var jsonConfigPath string
	var clusterBootstrap bool

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&baseURL, "base-url", "", "Public base URL of this node")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&artifactsDir, "artifacts-dir", "", "Deployment artifact directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.BoolVar(&clusterBootstrap, "cluster-bootstrap", false, "Run cluster bootstrap at startup")

	flag.Parse()

	return &StructuredConfig{
		Server: Server{
			Address: serverAddress,
			BaseURL: baseURL,
		},
		Cluster: Cluster{
			Bootstrap: clusterBootstrap,
		},
		Storage: Storage{
			DB:           DB{DSN: databaseDSN},
			ArtifactsDir: artifactsDir,
		},
		JSONFilePath: jsonConfigPath,
	}
}
