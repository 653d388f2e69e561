package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of the box tree construction.
var ProgressLogger = log.New(os.Stdout, "boxtree.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal error, like unparsable
// stylesheets or invalid style declarations.
var WarningLogger = log.New(os.Stdout, "boxtree.warning: ", log.Lmsgprefix)
