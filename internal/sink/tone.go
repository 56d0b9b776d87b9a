package sink

import "github.com/suykerbuyk/vibe-context/internal/activity"

var tones = map[activity.EventType]string{
	activity.EventSuccess:      "cheerful and satisfied",
	activity.EventError:        "concerned but helpful",
	activity.EventTestSuccess:  "happy and encouraging",
	activity.EventTestFailure:  "supportive and informative",
	activity.EventGitOperation: "professional and clear",
	activity.EventBugFix:       "proud and accomplished",
	activity.EventCreation:     "excited and enthusiastic",
	activity.EventGeneral:      "friendly and casual",
}

// Tone returns the delivery style hint for an event type. Unknown types get
// the general tone.
func Tone(e activity.EventType) string {
	if t, ok := tones[e]; ok {
		return t
	}
	return tones[activity.EventGeneral]
}

// Notification is the request shape accepted by the speech service.
type Notification struct {
	Message  string `json:"message"`
	Voice    string `json:"voice"`
	Style    string `json:"style"`
	Language string `json:"language"`
}

// NotificationFor builds a speech request for r. The message is the task
// summary, falling back to the last user request; wording is left to the
// service.
func NotificationFor(r activity.Result, voice, language string) Notification {
	msg := r.TaskSummary
	if msg == "" {
		msg = r.LastUserRequest
	}
	return Notification{
		Message:  msg,
		Voice:    voice,
		Style:    Tone(r.EventType),
		Language: language,
	}
}
