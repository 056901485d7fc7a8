// Command cleanarchguard checks the layer imports of every module under modules/.
package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type config struct {
	Version           int      `yaml:"version"`
	Root              string   `yaml:"root"`
	IgnoreTests       bool     `yaml:"ignore_tests"`
	IgnorePackages    []string `yaml:"ignore_packages"`
	SharedModules     []string `yaml:"shared_modules"`
	AllowedViolations []string `yaml:"allow_violations"`
	Aliases           struct {
		Domain         []string `yaml:"domain"`
		Application    []string `yaml:"application"`
		Interfaces     []string `yaml:"interfaces"`
		Infrastructure []string `yaml:"infrastructure"`
	} `yaml:"aliases"`
}

// Directory modules keep use cases in services/ and HTTP adapters in presentation/.
var (
	defaultDomainAliases         = []string{"domain", "aggregates", "entities"}
	defaultApplicationAliases    = []string{"services", "application"}
	defaultInterfacesAliases     = []string{"presentation", "controllers"}
	defaultInfrastructureAliases = []string{"infrastructure"}
)

func main() {
	var (
		configPath = flag.String("config", ".gocleanarch.yml", "Config file; defaults apply when it is missing")
		debug      = flag.Bool("debug", false, "Print go-cleanarch debug output")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("read config")
	}
	root, err := resolveRoot(cfg.Root)
	if err != nil {
		log.WithError(err).Fatal("resolve root")
	}

	if *debug {
		cleanarch.Log.SetOutput(os.Stderr)
	}

	validator := cleanarch.NewValidator(layerAliases(cfg))
	ok, errs, err := validator.Validate(root, cfg.IgnoreTests, cfg.IgnorePackages)
	if err != nil {
		log.WithError(err).Fatal("go-cleanarch")
	}

	filtered := filterValidationErrors(errs, cfg)
	if !ok && len(filtered) > 0 {
		for _, validationErr := range filtered {
			log.Error(validationErr.Error())
		}
		log.Errorf("%d layer violation(s)", len(filtered))
		os.Exit(1)
	}
	log.Info("layer check passed")
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Root: "modules", IgnoreTests: true}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = "modules"
	}
	return cfg, nil
}

func resolveRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errors.New("root must not be empty")
	}
	return filepath.Abs(root)
}

func layerAliases(cfg *config) map[string]cleanarch.Layer {
	aliases := map[string]cleanarch.Layer{}
	applyAliases(aliases, cfg.Aliases.Domain, defaultDomainAliases, cleanarch.LayerDomain)
	applyAliases(aliases, cfg.Aliases.Application, defaultApplicationAliases, cleanarch.LayerApplication)
	applyAliases(aliases, cfg.Aliases.Interfaces, defaultInterfacesAliases, cleanarch.LayerInterfaces)
	applyAliases(aliases, cfg.Aliases.Infrastructure, defaultInfrastructureAliases, cleanarch.LayerInfrastructure)
	return aliases
}

func applyAliases(dst map[string]cleanarch.Layer, custom, defaults []string, layer cleanarch.Layer) {
	candidates := defaults
	if len(custom) > 0 {
		candidates = custom
	}
	for _, alias := range candidates {
		if alias = strings.TrimSpace(alias); alias != "" {
			dst[alias] = layer
		}
	}
}

var crossModulePattern = regexp.MustCompile(`between ([\w-]+) and ([\w-]+) modules`)

// violation is the part of cleanarch.ValidationError the filter needs.
type violation interface {
	Error() string
}

func filterValidationErrors[E violation](errs []E, cfg *config) []E {
	if len(errs) == 0 {
		return nil
	}
	shared := make(map[string]struct{}, len(cfg.SharedModules))
	for _, module := range cfg.SharedModules {
		if module = strings.TrimSpace(module); module != "" {
			shared[module] = struct{}{}
		}
	}

	filtered := make([]E, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if crossesSharedModule(msg, shared) || allowed(msg, cfg.AllowedViolations) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func crossesSharedModule(msg string, shared map[string]struct{}) bool {
	if len(shared) == 0 {
		return false
	}
	m := crossModulePattern.FindStringSubmatch(msg)
	if len(m) != 3 {
		return false
	}
	_, left := shared[m[1]]
	_, right := shared[m[2]]
	return left || right
}

func allowed(msg string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
