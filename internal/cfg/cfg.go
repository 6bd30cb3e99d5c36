package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio    *MinIOCfg
	Http     *HTTPConfig
	Db       *PGDBCfg
	Redis    *RedisCfg
	Kafka    *KafkaCfg
	Catalog  *CatalogCfg
	Checkout *CheckoutCfg
	Admin    *AdminCfg
	Log      *LogCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string // пусто: публикация событий отключена
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// Enabled сообщает, настроена ли Kafka.
func (k *KafkaCfg) Enabled() bool {
	return k != nil && len(k.Brokers) > 0
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет для изображений товаров и категорий
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PublicBaseURL     string // Префикс публичных ссылок на объекты
	UploadImagesLimit int    // Лимит одновременных загрузок в S3
}

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type RedisCfg struct {
	Addr         string
	Password     string
	User         string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	Timeout      time.Duration
	CartTTL      time.Duration
	CandidateTTL time.Duration
}

type CatalogCfg struct {
	PageSize      int // размер страницы витрины
	AdminPageSize int
	MaxPageSize   int
	PageWindow    int // сколько номеров страниц показывать в навигации
}

type CheckoutCfg struct {
	WhatsAppPhone string
	StoreName     string
	RatePerMinute int
}

type AdminCfg struct {
	Token string
}

type LogCfg struct {
	Format string
	Level  string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	checkout, err := loadCheckoutCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	admin, err := loadAdminCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:    minio,
		Http:     http,
		Db:       db,
		Redis:    redis,
		Kafka:    kafka,
		Catalog:  catalog,
		Checkout: checkout,
		Admin:    admin,
		Log:      loadLogCfg(),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "catalog-changes"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL      = false
		defaultEndpoint    = "minio:9000"
		defaultBucket      = "storefront"
		defaultUploadLimit = 4
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("MINIO_UPLOAD_LIMIT", defaultUploadLimit)
	if err != nil || uploadLimit <= 0 {
		return nil, e.Wrap("MINIO_UPLOAD_LIMIT", e.ErrIncorrectEnvVariable)
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	bucket := getEnvOrDefault("BUCKET_NAME", defaultBucket)

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        bucket,
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicBaseURL:     strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint+"/"+bucket), "/"),
		UploadImagesLimit: uploadLimit,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort           = "8080"
		defaultReadTimeout    = 5 * time.Second
		defaultWriteTimeout   = 10 * time.Second
		defaultIdleTimeout    = 60 * time.Second
		defaultRequestTimeout = 15 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	requestTimeout, err := parseDurationEnv("HTTP_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_REQUEST_TIMEOUT")
		return nil, err
	}

	return &HTTPConfig{
		Port:           port,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		RequestTimeout: requestTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCartTTL      = 30 * 24 * time.Hour
		defaultCandidateTTL = 2 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	cartTTL, err := parseDurationEnv("CART_TTL", defaultCartTTL)
	if err != nil {
		log.Errorf(err, "invalid CART_TTL")
		return nil, err
	}

	candidateTTL, err := parseDurationEnv("CANDIDATE_TTL", defaultCandidateTTL)
	if err != nil {
		log.Errorf(err, "invalid CANDIDATE_TTL")
		return nil, err
	}

	return &RedisCfg{
		Addr:         getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:     getEnv("REDIS_PASSWORD"),
		User:         getEnv("REDIS_USER"),
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		Timeout:      max(readTimeout, writeTimeout),
		CartTTL:      cartTTL,
		CandidateTTL: candidateTTL,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const (
		defaultPageSize      = 12
		defaultAdminPageSize = 10
		defaultMaxPageSize   = 100
		defaultPageWindow    = 5
	)

	pageSize, err := parsePositiveIntEnv("CATALOG_PAGE_SIZE", defaultPageSize)
	if err != nil {
		return nil, err
	}

	adminPageSize, err := parsePositiveIntEnv("ADMIN_PAGE_SIZE", defaultAdminPageSize)
	if err != nil {
		return nil, err
	}

	maxPageSize, err := parsePositiveIntEnv("CATALOG_MAX_PAGE_SIZE", defaultMaxPageSize)
	if err != nil {
		return nil, err
	}

	window, err := parsePositiveIntEnv("CATALOG_PAGE_WINDOW", defaultPageWindow)
	if err != nil {
		return nil, err
	}

	return &CatalogCfg{
		PageSize:      pageSize,
		AdminPageSize: adminPageSize,
		MaxPageSize:   maxPageSize,
		PageWindow:    window,
	}, nil
}

func loadCheckoutCfg() (*CheckoutCfg, error) {
	const (
		defaultStoreName     = "Storefront"
		defaultRatePerMinute = 10
	)

	phone := strings.TrimPrefix(strings.TrimSpace(getEnv("WHATSAPP_PHONE")), "+")
	for _, r := range phone {
		if r < '0' || r > '9' {
			return nil, e.Wrap("WHATSAPP_PHONE", e.ErrIncorrectEnvVariable)
		}
	}

	rate, err := parsePositiveIntEnv("CHECKOUT_RATE_PER_MINUTE", defaultRatePerMinute)
	if err != nil {
		return nil, err
	}

	return &CheckoutCfg{
		WhatsAppPhone: phone,
		StoreName:     getEnvOrDefault("STORE_NAME", defaultStoreName),
		RatePerMinute: rate,
	}, nil
}

func loadAdminCfg() (*AdminCfg, error) {
	token := getEnv("ADMIN_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	return &AdminCfg{Token: token}, nil
}

func loadLogCfg() *LogCfg {
	return &LogCfg{
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	v, err := parseIntEnv(key, defaultValue)
	if err != nil || v <= 0 {
		return 0, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return v, nil
}
