package notify

import "strings"

type i18nKey int

// i18n string keys
const (
	ReminderDayBeforeTitle i18nKey = iota
	ReminderDayBeforeBody
	ReminderHourBeforeTitle
	ReminderHourBeforeBody
	ReminderPromptSuffix
)

type Lang int

// Supported languages
const (
	EN Lang = iota // English
	ES             // Spanish
)

var (
	language = map[Lang]map[i18nKey]string{
		ES: {
			// Event tomorrow
			ReminderDayBeforeTitle: "Recordatorio: %v",
			ReminderDayBeforeBody:  "Tu evento \"%v\" es mañana a las %v. Lugar: %v",
			// Event within the hour
			ReminderHourBeforeTitle: "El evento empieza pronto: %v",
			ReminderHourBeforeBody:  "Tu evento \"%v\" empieza en menos de una hora en %v",
			// Fallback prompt
			ReminderPromptSuffix: "Pulsa Aceptar para ver los detalles del evento.",
		},
		EN: {
			// Event tomorrow
			ReminderDayBeforeTitle: "Event Reminder: %v",
			ReminderDayBeforeBody:  "Your event \"%v\" is tomorrow at %v. Location: %v",
			// Event within the hour
			ReminderHourBeforeTitle: "Event Starting Soon: %v",
			ReminderHourBeforeBody:  "Your event \"%v\" starts in less than an hour at %v",
			// Fallback prompt
			ReminderPromptSuffix: "Click OK to view event details.",
		},
	}
)

func T(lang Lang, key i18nKey) string {
	if text, ok := language[lang][key]; ok {
		return text
	}
	return language[EN][key]
}

// ParseLang maps a language tag such as "es" or "es-ES" to a supported
// language. Anything else is English.
func ParseLang(tag string) Lang {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "es" || strings.HasPrefix(tag, "es-") || strings.HasPrefix(tag, "es_") {
		return ES
	}
	return EN
}
