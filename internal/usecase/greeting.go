package usecase

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

const WelcomeLine = "Hello, buddy! Welcome to Datanetiix!"

type GreetingUseCase struct {
	Locator IPLocator
	Weather WeatherProvider
	Logger  *zap.Logger
}

func NewGreetingUseCase(locator IPLocator, weather WeatherProvider, logger *zap.Logger) *GreetingUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GreetingUseCase{Locator: locator, Weather: weather, Logger: logger}
}

// Greet builds the welcome message. Any lookup failure falls back to the
// fixed welcome line.
func (uc *GreetingUseCase) Greet(ctx context.Context, callerIP string) string {
	if uc.Locator == nil || uc.Weather == nil {
		return WelcomeLine
	}

	ip := callerIP
	if !isPublicIP(ip) {
		var err error
		ip, err = uc.Locator.PublicIP(ctx)
		if err != nil {
			uc.Logger.Debug("ip lookup failed", zap.Error(err))
			return WelcomeLine
		}
	}

	city, err := uc.Locator.City(ctx, ip)
	if err != nil || strings.TrimSpace(city) == "" {
		uc.Logger.Debug("location lookup failed", zap.String("ip", ip), zap.Error(err))
		return WelcomeLine
	}
	city = strings.TrimSpace(city)

	condition, err := uc.Weather.Condition(ctx, city)
	if err != nil {
		uc.Logger.Debug("weather lookup failed", zap.String("city", city), zap.Error(err))
		return WelcomeLine
	}

	fragment := WeatherGreeting(condition)
	if fragment == "" {
		return WelcomeLine
	}
	return fmt.Sprintf("%s We hope you're connecting from %s. %s", WelcomeLine, city, fragment)
}

// WeatherGreeting maps an OpenWeatherMap main condition to a sentence.
// Unknown conditions return "".
func WeatherGreeting(condition string) string {
	condition = strings.ToLower(strings.TrimSpace(condition))
	switch condition {
	case "thunderstorm", "drizzle", "rain", "snow":
		return fmt.Sprintf("It seems like there's %s outside. Stay safe!", condition)
	case "atmosphere", "clear", "clouds":
		return fmt.Sprintf("Enjoy the %s weather!", condition)
	case "mist", "smoke", "haze", "dust", "fog", "sand", "ash":
		return fmt.Sprintf("Be cautious as there's %s in the air.", condition)
	case "squall", "tornado":
		return fmt.Sprintf("Take extra precautions due to %s in the area.", condition)
	}
	return ""
}

func isPublicIP(raw string) bool {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return false
	}
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast())
}
