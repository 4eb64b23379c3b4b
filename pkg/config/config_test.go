package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/creatorcore/contextcore/pkg/config"
)

var _ = Describe("ParseConfigTOML", func() {
	It("parses a sectioned config", func() {
		data := []byte(`
version = 0

[storage]
provider = "postgres"
postgres_url = "postgres://localhost/contextcore"

[ranking]
strategy = "normalized"
top_k = 5
topic_scoped = true

[feedback]
mode = "delta"
`)
		cfg, err := config.ParseConfigTOML(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Storage.Provider).To(Equal("postgres"))
		Expect(cfg.Storage.PostgresURL).To(Equal("postgres://localhost/contextcore"))
		Expect(cfg.Ranking.Strategy).To(Equal("normalized"))
		Expect(cfg.Ranking.TopK).To(Equal(uint(5)))
		Expect(cfg.Ranking.TopicScoped).To(BeTrue())
		Expect(cfg.Feedback.Mode).To(Equal("delta"))
	})

	It("rejects unsupported versions", func() {
		_, err := config.ParseConfigTOML([]byte("version = 99"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects malformed TOML", func() {
		_, err := config.ParseConfigTOML([]byte("[storage\nprovider ="))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewDefaultConfig", func() {
	It("fills every section with sane defaults", func() {
		cfg := config.NewDefaultConfig()
		Expect(cfg.Storage.Provider).To(Equal("sqlite"))
		Expect(cfg.API.Listen).To(Equal(":8080"))
		Expect(cfg.Embedding.Provider).To(Equal("hashing"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(256)))
		Expect(cfg.Ranking.Strategy).To(Equal("weighted"))
		Expect(cfg.Ranking.ScoreWeight).To(Equal(0.1))
		Expect(cfg.Ranking.TopK).To(Equal(uint(3)))
		Expect(cfg.Generation.Timeout).To(Equal("15s"))
		Expect(cfg.Feedback.Mode).To(Equal("keyword"))
	})
})

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "contextcore-config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns defaults when no config file exists", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Ranking.Strategy).To(Equal("weighted"))
	})

	It("round-trips values through set and get", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("ranking.strategy", "normalized")).To(Succeed())

		value, err := cfger.GetConfigValue("ranking.strategy")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("normalized"))

		// Persisted to disk, not just in memory.
		data, err := os.ReadFile(filepath.Join(tmpDir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`strategy = "normalized"`))
	})

	It("merges defaults into a partially set file", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("api.listen", ":9999")).To(Succeed())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.Listen).To(Equal(":9999"))
		Expect(cfg.Feedback.Mode).To(Equal("keyword"))
	})

	It("parses typed keys on set", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("ranking.top_k", "7")).To(Succeed())
		Expect(cfger.SetConfigValue("ranking.topic_scoped", "true")).To(Succeed())
		Expect(cfger.SetConfigValue("ranking.score_weight", "0.25")).To(Succeed())

		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Ranking.TopK).To(Equal(uint(7)))
		Expect(cfg.Ranking.TopicScoped).To(BeTrue())
		Expect(cfg.Ranking.ScoreWeight).To(Equal(0.25))
	})

	It("rejects invalid typed values", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("ranking.top_k", "lots")).NotTo(Succeed())
		Expect(cfger.SetConfigValue("embedding.dimensions", "-4")).NotTo(Succeed())
	})

	It("rejects unknown keys", func() {
		cfger, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfger.SetConfigValue("nope.nothing", "x")).NotTo(Succeed())
		_, err = cfger.GetConfigValue("nope.nothing")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("covers every registered key exactly once", func() {
		keys := config.ValidConfigKeys()
		seen := map[string]bool{}
		for _, k := range keys {
			Expect(seen[k]).To(BeFalse(), "duplicate key %s", k)
			seen[k] = true
			Expect(config.IsValidConfigKey(k)).To(BeTrue())
		}
		Expect(keys).To(ContainElements(
			"storage.provider",
			"ranking.strategy",
			"generation.timeout",
			"feedback.mode",
		))
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the local preset", func() {
		cfg, err := config.PresetConfig("local")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("hashing"))
	})

	It("returns the ollama preset", func() {
		cfg, err := config.PresetConfig("ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
		Expect(cfg.Embedding.Dimensions).To(Equal(uint(768)))
	})

	It("rejects unknown presets", func() {
		_, err := config.PresetConfig("mystery")
		Expect(err).To(HaveOccurred())
	})
})
