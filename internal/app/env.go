package app

import "os"

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv
