package api

type RsvpStatus string

const (
	RsvpStatus_ATTENDING RsvpStatus = "attending"
	RsvpStatus_MAYBE     RsvpStatus = "maybe"
	RsvpStatus_DECLINED  RsvpStatus = "declined"
)

// RsvpStatuses lists every bucket in display order.
var RsvpStatuses = []RsvpStatus{RsvpStatus_ATTENDING, RsvpStatus_MAYBE, RsvpStatus_DECLINED}

func (s RsvpStatus) IsValid() bool {
	switch s {
	case RsvpStatus_ATTENDING, RsvpStatus_MAYBE, RsvpStatus_DECLINED:
		return true
	}
	return false
}

type Visibility string

const (
	Visibility_PUBLIC  Visibility = "public"
	Visibility_PRIVATE Visibility = "private"
)

type Category string

const (
	Category_SOCIAL        Category = "social"
	Category_BUSINESS      Category = "business"
	Category_EDUCATIONAL   Category = "educational"
	Category_ENTERTAINMENT Category = "entertainment"
	Category_SPORTS        Category = "sports"
	Category_ARTS          Category = "arts"
	Category_TECHNOLOGY    Category = "technology"
	Category_OTHER         Category = "other"
)

var knownCategories = map[Category]bool{
	Category_SOCIAL: true, Category_BUSINESS: true, Category_EDUCATIONAL: true,
	Category_ENTERTAINMENT: true, Category_SPORTS: true, Category_ARTS: true,
	Category_TECHNOLOGY: true, Category_OTHER: true,
}

// NormalizeCategory maps unknown or empty tags to Category_OTHER.
func NormalizeCategory(c Category) Category {
	if knownCategories[c] {
		return c
	}
	return Category_OTHER
}

type NotificationPermission int8

const (
	Permission_UNDETERMINED NotificationPermission = 0
	Permission_GRANTED      NotificationPermission = 1
	Permission_DENIED       NotificationPermission = 2
)

func (p NotificationPermission) String() string {
	switch p {
	case Permission_GRANTED:
		return "granted"
	case Permission_DENIED:
		return "denied"
	}
	return "undetermined"
}
