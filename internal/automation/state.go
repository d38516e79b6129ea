package automation

import (
	"fmt"
	"time"
)

// State is a stage of an automation session.
type State int

const (
	StateIdle State = iota
	StateBrowserStarted
	StateSearching
	StateResultsReady
	StateSelectionInProgress
	StatePaymentPending
	StateConfirmed
	StateFailed
	StateClosed
)

var stateNames = [...]string{
	StateIdle:                "Idle",
	StateBrowserStarted:      "BrowserStarted",
	StateSearching:           "Searching",
	StateResultsReady:        "ResultsReady",
	StateSelectionInProgress: "SelectionInProgress",
	StatePaymentPending:      "PaymentPending",
	StateConfirmed:           "Confirmed",
	StateFailed:              "Failed",
	StateClosed:              "Closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether the booking attempt is over. Terminal sessions
// still need Close to release the browser.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed || s == StateClosed
}

// transitions lists the forward edges. Failed and Closed are reached
// through fail and Close, which are valid from any non-closed state.
var transitions = map[State][]State{
	StateIdle:                {StateBrowserStarted},
	StateBrowserStarted:      {StateSearching},
	StateSearching:           {StateResultsReady},
	StateResultsReady:        {StateSelectionInProgress},
	StateSelectionInProgress: {StatePaymentPending},
	StatePaymentPending:      {StateConfirmed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Reason classifies why a session failed.
type Reason string

const (
	ReasonBrowserLaunch   Reason = "BrowserLaunch"
	ReasonNavigation      Reason = "Navigation"
	ReasonElementNotFound Reason = "ElementNotFound"
	ReasonScrapeFailed    Reason = "ScrapeFailed"
	ReasonPaymentTimeout  Reason = "PaymentTimeout"
	ReasonCancelled       Reason = "Cancelled"
	ReasonPanic           Reason = "Panic"
)

// ErrorInfo describes the last failure of a session.
type ErrorInfo struct {
	Reason  Reason    `json:"reason"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}
