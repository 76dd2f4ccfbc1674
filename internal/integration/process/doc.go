// Package process tracks the lifecycle of the child process behind a session.
//
// A Process wraps an exec.Cmd with:
//
//   - State tracking (created, running, exited, killed)
//   - Exit code retrieval and a Done channel
//   - Signal delivery, including a graceful Stop that escalates to SIGKILL
//
// The caller decides how the command is started, which lets a session
// attach it to a pseudo-terminal:
//
//	proc := process.NewProcess("ssh", exec.Command("ssh", "-t", host))
//	err := proc.Start(func(cmd *exec.Cmd) error {
//	    f, err := pty.Start(cmd)
//	    ...
//	})
//
//	<-proc.Done()
//	fmt.Printf("Exit code: %d\n", proc.ExitCode())
package process
