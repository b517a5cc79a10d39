package analysis

import "go.uber.org/fx"

// Module provides the analysis client
var Module = fx.Module("analysis",
	fx.Provide(NewClient),
)
