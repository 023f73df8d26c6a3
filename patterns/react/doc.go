// Package react implements the ReAct episode controller.
//
// A [Controller] alternates between asking a [reasoning.Adapter] for the next
// thought, classifying it with the action parser, invoking the requested tool
// through a [tool.Registry] and recording the observation, until the backend
// gives a final answer or a budget runs out:
//
//	registry, _ := tool.NewRegistryWithTools(nebula.Tools()...)
//	controller, _ := react.New(registry, adapter, react.WithObserver(slogobs.New()))
//	result, err := controller.RunEpisode(ctx, goal, react.DefaultConfig())
//	if err != nil {
//	    return err // invalid Config
//	}
//	switch result.Outcome {
//	case react.Success:
//	    fmt.Println(result.Answer)
//	case react.Exhausted, react.Aborted:
//	    fmt.Println(result.Reason, result.Err)
//	}
//
// Tool failures and malformed thoughts are fed back to the backend as error
// observations. Reasoning failures end the episode. [Controller.Stream]
// yields every step as it is committed.
package react
