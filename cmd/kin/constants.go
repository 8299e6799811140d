package main

import "github.com/ersonp/kinship/internal/infrastructure/config"

const defaultTree = config.DefaultTreeName

// DefaultShowWidth is the word wrap used by "kin show".
const DefaultShowWidth = 80

// Valid output formats for "kin relations".
var relationsFormats = []string{"tree", "list", "json"}
