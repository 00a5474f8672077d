// Package processor contains the pipeline stages behind the themegrid
// commands. It loads themes, locks theme directories, and coordinates the
// fetcher, the scorers, the pickers and the document writer. It implements
// cli.Runner.
package processor
