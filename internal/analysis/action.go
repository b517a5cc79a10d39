package analysis

import "fmt"

// Action names one of the backend analysis operations.
type Action string

const (
	ActionAnalyze    Action = "analyze"
	ActionComplexity Action = "complexity"
	ActionReview     Action = "review"
	ActionOptimize   Action = "optimize"
	ActionProfile    Action = "profile"
)

// Kind says how a slot value is displayed.
type Kind int

const (
	// KindJSON values are shown pretty-printed.
	KindJSON Kind = iota
	// KindText values are JSON strings shown verbatim.
	KindText
)

// Spec binds an action to its endpoint and the response field it consumes.
type Spec struct {
	Action Action
	Path   string
	Field  string
	Button string
	Title  string
	Kind   Kind
}

var specs = []Spec{
	{Action: ActionAnalyze, Path: "/api/analyze", Field: "suggestions", Button: "Analyze Code", Title: "Code Analysis", Kind: KindJSON},
	{Action: ActionComplexity, Path: "/api/complexity", Field: "complexity_score", Button: "Analyze Complexity", Title: "Code Complexity", Kind: KindJSON},
	{Action: ActionReview, Path: "/api/review", Field: "comments", Button: "Review Code", Title: "Code Review Comments", Kind: KindJSON},
	{Action: ActionOptimize, Path: "/api/optimize", Field: "optimized_code", Button: "Optimize Code", Title: "Optimized Code", Kind: KindText},
	{Action: ActionProfile, Path: "/api/profile", Field: "performance", Button: "Profile Code Performance", Title: "Code Performance", Kind: KindJSON},
}

// Specs returns every action in button order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup finds the spec for an action name.
func Lookup(name string) (Spec, error) {
	for _, s := range specs {
		if string(s.Action) == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// MustLookup is Lookup for the Action constants.
func MustLookup(a Action) Spec {
	s, err := Lookup(string(a))
	if err != nil {
		panic(err)
	}
	return s
}
