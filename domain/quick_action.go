package domain

import (
	"afya-chat/errors"
	"fmt"
)

// QuickAction is a one-tap shortcut shown above the chat.
type QuickAction string

const (
	ActionClinics     QuickAction = "clinics"
	ActionAppointment QuickAction = "appointment"
	ActionFAQs        QuickAction = "faqs"
)

// LabelKey is the localization key of the text sent when the action is chosen.
func (a QuickAction) LabelKey() string {
	switch a {
	case ActionClinics:
		return "clinicLocations"
	case ActionAppointment:
		return "scheduleAppointment"
	case ActionFAQs:
		return "faqs"
	default:
		return ""
	}
}

func ParseQuickAction(s string) (QuickAction, error) {
	switch a := QuickAction(s); a {
	case ActionClinics, ActionAppointment, ActionFAQs:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownAction, s)
	}
}

func QuickActions() []QuickAction {
	return []QuickAction{ActionClinics, ActionAppointment, ActionFAQs}
}
