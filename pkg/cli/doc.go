/*
Package cli provides command-line utilities shared by the saturn command.

Output Formatting:

Command results render as text, JSON, or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

Long-running operations such as evidence export report progress:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(total)
	for i := int64(0); i < total; i++ {
		progress.Update(i + 1)
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
*/
package cli
