package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Config struct {
	PostgresURI       string
	RedisURI          string
	SecretKey         string
	JWTSecretKey      string
	UploadDir         string
	StaticDir         string
	CohereAPIKey      string
	CohereBaseURL     string
	BlipBaseURL       string
	BlipAPIKey        string
	DescriberStrategy string // "heuristic" or "blip"
	UploaderCommand   string
	InstagramUsername string
	InstagramPassword string
	FrontendURL       string
	R2                R2
	Port              string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI:       getEnv("POSTGRES_URI", ""),
		RedisURI:          getEnv("REDIS_URI", "localhost:6379"),
		SecretKey:         getEnv("SECRET_KEY", ""),
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		StaticDir:         getEnv("STATIC_DIR", "static"),
		CohereAPIKey:      getEnv("COHERE_API_KEY", ""),
		CohereBaseURL:     getEnv("COHERE_BASE_URL", "https://api.cohere.ai/v1"),
		BlipBaseURL:       getEnv("BLIP_BASE_URL", ""),
		BlipAPIKey:        getEnv("BLIP_API_KEY", ""),
		DescriberStrategy: getEnv("DESCRIBER_STRATEGY", "heuristic"),
		UploaderCommand:   getEnv("UPLOADER_COMMAND", "instagram-uploader"),
		InstagramUsername: getEnv("INSTAGRAM_USERNAME", ""),
		InstagramPassword: getEnv("INSTAGRAM_PASSWORD", ""),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		Port: getEnv("PORT", "3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
