// Package replay builds and runs prboom-plus demo replays.
//
// A replay is a deterministic re-execution of a recorded demo (.lmp) against
// the engine. The engine is driven in -fastdemo mode with rendering and audio
// disabled, and asked to write two artifacts into its working directory:
//
//   - analysis.txt: key/value run summary (-analysis)
//   - levelstat.txt: per-level timing table (-levelstat)
//
// This package only builds the command line and waits for the process. It
// never creates, reads or validates the artifacts; see package artifact.
//
// # Usage
//
//	inv := replay.Build(replay.Config{Demo: "pacifist.lmp"})
//	ok, err := replay.NewRunner().Run(ctx, inv)
//	if err != nil {
//	    return err // engine missing, could not start, or ctx ended
//	}
//	if !ok {
//	    // engine exited non-zero; artifacts may still hold partial output
//	}
//
// # Concurrency
//
// Both artifacts are overwritten in place by every replay. The runner holds
// an exclusive advisory lock on its working directory while the engine runs,
// so a second replay in the same directory fails with ErrCodeBusy instead of
// clobbering the first one's output. The lock lives in LockFile, an empty
// file that stays in the directory between replays; add it to .gitignore
// when the engine runs from a checkout.
package replay
