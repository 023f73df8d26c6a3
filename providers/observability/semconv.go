package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across the controller, the tool registry and the observer backends.

// --- Episode Attributes ---

const (
	// AttrEpisodeID is the unique identifier assigned to an episode
	AttrEpisodeID = "episode.id"

	// AttrEpisodeGoal is the goal text the episode was started with
	AttrEpisodeGoal = "episode.goal"

	// AttrEpisodeOutcome is the terminal outcome (success, exhausted, aborted)
	AttrEpisodeOutcome = "episode.outcome"

	// AttrEpisodeReason is the abort reason, empty unless aborted
	AttrEpisodeReason = "episode.reason"

	// AttrEpisodeCycles is the number of Action/Observation pairs completed
	AttrEpisodeCycles = "episode.cycles"

	// AttrEpisodeMalformed is the number of malformed thoughts seen
	AttrEpisodeMalformed = "episode.malformed"

	// AttrEpisodeSteps is the number of steps in the trace
	AttrEpisodeSteps = "episode.steps"

	// AttrEpisodeMaxCycles is the cycle budget
	AttrEpisodeMaxCycles = "episode.max_cycles"

	// AttrEpisodeMaxMalformed is the malformed retry budget
	AttrEpisodeMaxMalformed = "episode.max_malformed_retries"
)

// --- Step Attributes ---

const (
	// AttrStepIndex is the position of a step in the trace
	AttrStepIndex = "step.index"

	// AttrStepKind is the step kind (thought, action, observation, final_answer)
	AttrStepKind = "step.kind"

	// AttrStepLength is the length of the step's text payload
	AttrStepLength = "step.length"

	// AttrIntent is the classification of a thought (tool_call, final_answer, malformed)
	AttrIntent = "intent"

	// AttrParseReason is the reason a thought was classified as malformed
	AttrParseReason = "parse.reason"
)

// --- Reasoning Attributes ---

const (
	// AttrReasoningTimeout is the per-call reasoning deadline
	AttrReasoningTimeout = "reasoning.timeout"

	// AttrReasoningOutput is the (truncated) thought text
	AttrReasoningOutput = "reasoning.output"
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolNames is the list of registered tool names
	AttrToolNames = "tool.names"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"

	// AttrToolErrorKind is the failure kind (unknown_tool, invalid_arguments, ...)
	AttrToolErrorKind = "tool.error.kind"

	// ToolNameUnregistered stands in for tool names that are not in the
	// registry when they are used as metric attributes.
	ToolNameUnregistered = "unknown"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanEpisode covers a whole RunEpisode call
	SpanEpisode = "react.episode"

	// SpanReasoning covers one call to the reasoning adapter
	SpanReasoning = "react.reasoning"

	// SpanToolExecution is the span name for tool executions
	SpanToolExecution = "tool.execution"
)

// --- Event Names ---

const (
	// EventStepAppended marks a step being committed to the trace
	EventStepAppended = "step.appended"

	// EventMalformedOutput marks a thought the parser could not classify
	EventMalformedOutput = "reasoning.malformed"

	// EventToolExecutionStart marks the start of tool execution
	EventToolExecutionStart = "tool.execution.start"

	// EventToolExecutionEnd marks the end of tool execution
	EventToolExecutionEnd = "tool.execution.end"
)

// --- Metric Names ---

const (
	// MetricEpisodeCount counts finished episodes, labelled by outcome
	MetricEpisodeCount = "reago.episode.count"

	// MetricEpisodeDuration is the histogram of episode wall time in seconds
	MetricEpisodeDuration = "reago.episode.duration"

	// MetricStepCount counts committed steps, labelled by kind
	MetricStepCount = "reago.step.count"

	// MetricToolCalls counts tool invocations, labelled by tool
	MetricToolCalls = "reago.tool.calls"

	// MetricToolErrors counts failed tool invocations, labelled by tool and kind
	MetricToolErrors = "reago.tool.errors"

	// MetricToolDuration is the histogram of tool latency in seconds
	MetricToolDuration = "reago.tool.duration"

	// MetricMalformedOutputs counts thoughts that failed to parse
	MetricMalformedOutputs = "reago.reasoning.malformed"

	// MetricReasoningDuration is the histogram of reasoning latency in seconds
	MetricReasoningDuration = "reago.reasoning.duration"
)
