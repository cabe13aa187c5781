// internal/ppd/options.go
package ppd

import (
	"strings"

	"go.uber.org/zap"

	"printer-service/pkg/printertypes"
)

// CopyOptions copies each source default onto the destination when the
// destination offers the same option, with the same UI kind, and the same
// choice. PageRegion is never copied.
func CopyOptions(src, dst *Descriptor, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}

	copied := 0
	for _, option := range src.Options() {
		if option.Keyword == "PageRegion" {
			continue
		}

		target := dst.FindOption(option.Keyword)
		if target == nil || target.UI != option.UI {
			continue
		}

		value := option.DefChoice
		if target.FindChoice(value) == nil {
			continue
		}

		if err := dst.MarkOption(target.Keyword, value); err != nil {
			continue
		}
		copied++
		logger.Debug("Option copied",
			zap.String("option", target.Keyword),
			zap.String("value", value),
		)
	}

	return copied
}

// PageSizeForLocale returns Letter for the North American locales and A4
// for every other locale.
func PageSizeForLocale(locale string) string {
	for _, l := range printertypes.LetterLocales {
		if locale == l {
			return printertypes.PageSizeLetter
		}
	}
	return printertypes.PageSizeA4
}

// SetPageSize marks the locale page size on d. A descriptor without that
// size is left untouched and the failure is only logged.
func SetPageSize(d *Descriptor, locale string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	size := PageSizeForLocale(locale)
	if err := d.MarkOption("PageSize", size); err != nil {
		logger.Debug("Failed to set PageSize",
			zap.String("size", size),
			zap.Error(err),
		)
		return size
	}

	logger.Debug("PageSize set", zap.String("size", size))
	return size
}

// LocaleFromEnv reduces a POSIX locale value such as "en_US.UTF-8@euro"
// to its language tag ("en_US").
func LocaleFromEnv(value string) string {
	if value == "" {
		return "C"
	}
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	return value
}
