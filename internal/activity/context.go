package activity

import "path/filepath"

// NewContext returns an empty context with every collection initialized.
func NewContext() *Context {
	return &Context{
		FilesModified:     []string{},
		CommandsRun:       []string{},
		ToolsUsed:         []string{},
		GitOperations:     []string{},
		ErrorsEncountered: []string{},
		SuccessIndicators: []string{},
		PrimaryActivity:   General,
		Success:           true,
	}
}

// AddFile records path by basename. A basename already present is ignored,
// so the first occurrence keeps its position.
func (c *Context) AddFile(path string) bool {
	name := filepath.Base(path)
	if name == "" || name == "." || name == "/" {
		return false
	}
	for _, f := range c.FilesModified {
		if f == name {
			return false
		}
	}
	c.FilesModified = append(c.FilesModified, name)
	return true
}

// AddCommand appends cmd. Repeats are kept.
func (c *Context) AddCommand(cmd string) {
	if cmd == "" {
		return
	}
	c.CommandsRun = append(c.CommandsRun, cmd)
}

// AddTool records a tool name once.
func (c *Context) AddTool(name string) {
	if name == "" || c.HasTool(name) {
		return
	}
	c.ToolsUsed = append(c.ToolsUsed, name)
}

// HasTool reports whether name was recorded.
func (c *Context) HasTool(name string) bool {
	for _, t := range c.ToolsUsed {
		if t == name {
			return true
		}
	}
	return false
}

// AddGitOp appends an operation of the form "git <verb>". Repeats are kept.
func (c *Context) AddGitOp(op string) {
	if op == "" {
		return
	}
	c.GitOperations = append(c.GitOperations, op)
}

// AddError records an error snippet and marks the context unsuccessful.
func (c *Context) AddError(note string) {
	if note == "" {
		return
	}
	c.ErrorsEncountered = append(c.ErrorsEncountered, note)
	c.Success = false
}

// AddSuccess records a success phrase.
func (c *Context) AddSuccess(phrase string) {
	if phrase == "" {
		return
	}
	c.SuccessIndicators = append(c.SuccessIndicators, phrase)
}

func (c *Context) testResults() *TestResults {
	if c.TestResults == nil {
		c.TestResults = &TestResults{}
	}
	return c.TestResults
}

// SetTestCount sets one numeric test sub-field. The first value set for a
// sub-field wins; later calls for the same sub-field are ignored.
func (c *Context) SetTestCount(kind FactKind, n float64) bool {
	tr := c.testResults()
	switch kind {
	case FactTestPassed:
		return setOnce(&tr.Passed, int(n))
	case FactTestFailed:
		return setOnce(&tr.Failed, int(n))
	case FactTestSkipped:
		return setOnce(&tr.Skipped, int(n))
	case FactCoverage:
		if tr.CoveragePct != nil {
			return false
		}
		tr.CoveragePct = &n
		return true
	}
	return false
}

// SetTestPhrase keeps the first unparsed test phrase for display. A failure
// phrase replaces an earlier passing one.
func (c *Context) SetTestPhrase(phrase string) {
	if phrase == "" {
		return
	}
	tr := c.testResults()
	if tr.Raw == "" || (!FailurePhrase(tr.Raw) && FailurePhrase(phrase)) {
		tr.Raw = phrase
	}
}

// Fail marks the context unsuccessful and records why.
func (c *Context) Fail(note string) {
	c.Success = false
	if note != "" {
		c.ErrorsEncountered = append(c.ErrorsEncountered, note)
	}
}

func setOnce(dst **int, v int) bool {
	if *dst != nil {
		return false
	}
	*dst = &v
	return true
}
