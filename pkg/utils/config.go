package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Pricing  PricingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type BookingConfig struct {
	OpenHour             int    // first bookable hour of the day
	CloseHour            int    // last slot starts one hour before this
	InitialStatus        string // "confirmed" or "pending"
	SweepIntervalMinutes int    // 0 disables the completion sweeper
}

type PricingConfig struct {
	PeakStartHour   int
	PeakEndHour     int
	PeakSurcharge   int64 // currency minor units
	IndoorSurcharge int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BOOKING_OPEN_HOUR", 6)
	viper.SetDefault("BOOKING_CLOSE_HOUR", 22)
	viper.SetDefault("BOOKING_INITIAL_STATUS", "confirmed")
	viper.SetDefault("BOOKING_SWEEP_INTERVAL_MINUTES", 5)
	viper.SetDefault("PRICING_PEAK_START_HOUR", 17)
	viper.SetDefault("PRICING_PEAK_END_HOUR", 21)
	viper.SetDefault("PRICING_PEAK_SURCHARGE", 100)
	viper.SetDefault("PRICING_INDOOR_SURCHARGE", 0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			OpenHour:             viper.GetInt("BOOKING_OPEN_HOUR"),
			CloseHour:            viper.GetInt("BOOKING_CLOSE_HOUR"),
			InitialStatus:        viper.GetString("BOOKING_INITIAL_STATUS"),
			SweepIntervalMinutes: viper.GetInt("BOOKING_SWEEP_INTERVAL_MINUTES"),
		},
		Pricing: PricingConfig{
			PeakStartHour:   viper.GetInt("PRICING_PEAK_START_HOUR"),
			PeakEndHour:     viper.GetInt("PRICING_PEAK_END_HOUR"),
			PeakSurcharge:   viper.GetInt64("PRICING_PEAK_SURCHARGE"),
			IndoorSurcharge: viper.GetInt64("PRICING_INDOOR_SURCHARGE"),
		},
	}

	return config, nil
}
