// Package traversal plays the Getting to Philosophy game.
//
// A Walker starts on a random (or given) article and keeps following the
// first qualifying link of the article body until it reaches the target
// article, revisits an article it has already seen, runs out of links or
// hits the step limit. Each attempt produces a model.Run describing the
// path taken and how it ended.
//
// The Walker owns its page driver for the duration of a run and closes it
// on every exit path, including errors.
//
// # Usage
//
//	w := traversal.New(drv, traversal.WithMaxSteps(100))
//	run, err := w.FindPhilosophy(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(run.Outcome, run.Steps)
package traversal
