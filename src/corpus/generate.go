package corpus

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"debugassist/src/contracts"
)

// templateSpec pairs the traceback templates for one family with the
// remediation texts attached to generated cases.
type templateSpec struct {
	templates []string
	fixTexts  []string
}

// Filler pools for template rendering.
var (
	genModules = []string{"requests", "numpy", "pandas", "flask", "django", "matplotlib", "sklearn", "yaml", "typer", "joblib", "bs4", "lxml"}
	genFiles   = []string{"main.py", "app.py", "script.py", "server.py", "utils.py", "src/handler.py", "src/service.py", "src/helpers.py", "project/module.py"}
	genFuncs   = []string{"run", "main", "handler", "process", "parse", "load_data", "save_results", "compute", "transform", "validate"}
	genVars    = []string{"data", "items", "result", "user", "payload", "config", "count", "total", "value", "x", "y", "idx", "key"}
	genKeys    = []string{"user_id", "email", "name", "age", "items", "token", "id", "status", "created_at", "updated_at"}
	genPaths   = []string{"data/input.csv", "data/users.json", "configs/app.yaml", "logs/app.log", `C:\Users\User\Desktop\input.txt`, "/home/user/project/data/input.txt"}
	genHosts   = []string{"api.example.com", "localhost", "127.0.0.1", "example.org", "service.internal"}
	genURLs    = []string{"https://api.example.com/v1/users", "https://example.org/data", "http://localhost:8000/health", "https://service.internal/api"}
	genStrings = []string{"abc", "12a", "None", "TRUE", "3.14.15", "01-32-2025"}
	genNames   = []string{"get", "post", "Client", "Session", "DataFrame", "load", "dump"}
	genTypes   = []string{"int", "str", "list", "dict", "NoneType", "float", "bool"}
	genAttrs   = []string{"split", "items", "get", "append", "read", "to_json", "keys"}
	genDicts   = []string{"payload", "data", "row", "obj", "record"}
	genLists   = []string{"items", "results", "values", "rows"}
	genBadLine = []string{
		"if x == 3 print(x)",
		"def func(x)\n    return x",
		"for i in range(10)\n  print(i)",
		"print('hello'",
		"my_list = [1, 2, 3",
		"return return x",
	}
)

var fixWhitespace = regexp.MustCompile(`\s+`)

func templateSpecs() map[contracts.ErrorFamily]templateSpec {
	return map[contracts.ErrorFamily]templateSpec{
		contracts.FamilyImportError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in <module>\n    import {module}\nModuleNotFoundError: No module named '{module}'",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in <module>\n    from {module} import {name}\nImportError: cannot import name '{name}' from '{module}'",
			},
			fixTexts: []string{
				"Install the missing dependency: python -m pip install <module>; verify the correct virtual environment is active; restart the interpreter/kernel.",
				"Check the module version and import path; ensure the symbol exists in the installed package; avoid naming your file the same as the package.",
			},
		},
		contracts.FamilySyntaxError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}\n    {bad_line}\nSyntaxError: invalid syntax",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}\n    {bad_line}\nIndentationError: unexpected indent",
			},
			fixTexts: []string{
				"Check the indicated line for missing punctuation (':', ')', ']', quotes) or incomplete statements; comment out recent edits to isolate.",
				"Fix indentation consistency (spaces vs tabs); ensure blocks align; use 4 spaces per indent and reformat the file.",
			},
		},
		contracts.FamilyTypeError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = {var} + {other}\nTypeError: unsupported operand type(s) for +: '{t1}' and '{t2}'",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var}()\nTypeError: '{t1}' object is not callable",
			},
			fixTexts: []string{
				"Inspect types with type(x); convert/cast to compatible types before operation; validate inputs (e.g., int(), float(), str()).",
				"You may be shadowing a function name with a variable; rename the variable or ensure you're calling a function, not a string/list/dict.",
			},
		},
		contracts.FamilyValueError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = int('{s}')\nValueError: invalid literal for int() with base 10: '{s}'",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var}.remove({num})\nValueError: list.remove(x): x not in list",
			},
			fixTexts: []string{
				"Validate/clean the string before casting; use try/except around parsing; confirm the expected format.",
				"Check whether the value exists before removing; use 'if x in list:'; verify list contents and logic.",
			},
		},
		contracts.FamilyAttributeError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var}.{attr}()\nAttributeError: '{t1}' object has no attribute '{attr}'",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var}.split(',')\nAttributeError: 'NoneType' object has no attribute 'split'",
			},
			fixTexts: []string{
				"Print the object and type(obj) before the failing line; confirm the attribute exists; check spelling and expected object type.",
				"Add a None-check before calling methods; ensure the variable is initialized and assigned the expected value before use.",
			},
		},
		contracts.FamilyKeyError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = {dictname}['{key}']\nKeyError: '{key}'",
				"ERROR: Failed to process request\n'{key}'",
			},
			fixTexts: []string{
				"Print dictionary keys and confirm the key exists; use dict.get(key, default) when appropriate; normalize key formatting (case/whitespace).",
				"If this came from logs, treat it like a missing dict key; add guard logic and verify upstream data shape.",
			},
		},
		contracts.FamilyIndexError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = {listname}[{idx}]\nIndexError: list index out of range",
				"list index out of range",
			},
			fixTexts: []string{
				"Check list length with len(list); guard bounds; review loop conditions for off-by-one errors; handle empty lists.",
				"If the traceback is missing, still treat it as an IndexError; add bounds checks and validate inputs.",
			},
		},
		contracts.FamilyFileError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    f = open('{path}', 'r')\nFileNotFoundError: [Errno 2] No such file or directory: '{path}'",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    f = open('{path}', 'w')\nPermissionError: [Errno 13] Permission denied: '{path}'",
			},
			fixTexts: []string{
				"Print the absolute path and working directory; confirm the file exists; use pathlib to build paths; ensure correct relative path.",
				"Write to a permitted directory; check file/folder permissions; avoid protected OS paths; run with correct permissions if necessary.",
			},
		},
		contracts.FamilyZeroDivision: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = {num} / 0\nZeroDivisionError: division by zero",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    {var} = {num} // 0\nZeroDivisionError: integer division or modulo by zero",
			},
			fixTexts: []string{
				"Guard denominators (if denom == 0); validate input ranges; handle empty/zero values before division.",
				"Check that a divisor is never zero; add fallback logic or filtering for invalid values.",
			},
		},
		contracts.FamilyConnectionError: {
			templates: []string{
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    r = requests.get('{url}', timeout={timeout})\nrequests.exceptions.Timeout: HTTPSConnectionPool(host='{host}', port=443): Read timed out.",
				"Traceback (most recent call last):\n  File \"{file}\", line {line}, in {func}\n    r = requests.get('{url}')\nrequests.exceptions.ConnectionError: Failed to establish a new connection: [Errno 111] Connection refused",
			},
			fixTexts: []string{
				"Increase timeout; verify network connectivity/DNS; confirm the service is up; add retries/backoff; check proxy settings.",
				"Confirm the host/port is correct and reachable; check the server is running; validate firewall rules; try curl/ping for diagnostics.",
			},
		},
	}
}

// GenerateOptions controls synthetic corpus generation. Exactly one of
// Total or PerClass must be positive.
type GenerateOptions struct {
	Total    int
	PerClass int
	Seed     int64
}

// Generate builds a shuffled synthetic corpus of labeled cases by filling
// per-family traceback templates with random values. Output is fully
// determined by the options; ids are sequential in creation order.
func Generate(opts GenerateOptions) ([]contracts.Case, error) {
	if (opts.Total <= 0) == (opts.PerClass <= 0) {
		return nil, fmt.Errorf("provide exactly one of Total or PerClass")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	counts := planCounts(opts, rng)
	specs := templateSpecs()

	var cases []contracts.Case
	nextID := 1
	for _, family := range contracts.Families() {
		spec := specs[family]
		for i := 0; i < counts[family]; i++ {
			template := spec.templates[rng.Intn(len(spec.templates))]
			fix := fixWhitespace.ReplaceAllString(spec.fixTexts[rng.Intn(len(spec.fixTexts))], " ")

			cases = append(cases, contracts.Case{
				ID:          fmt.Sprintf("%d", nextID),
				ErrorText:   render(template, rng),
				ErrorFamily: family,
				FixText:     strings.TrimSpace(fix),
			})
			nextID++
		}
	}

	rng.Shuffle(len(cases), func(i, j int) { cases[i], cases[j] = cases[j], cases[i] })
	return cases, nil
}

// planCounts distributes the requested volume over the families. A Total
// that does not divide evenly spreads the remainder over a shuffled subset
// so no family is systematically favored.
func planCounts(opts GenerateOptions, rng *rand.Rand) map[contracts.ErrorFamily]int {
	families := contracts.Families()
	counts := make(map[contracts.ErrorFamily]int, len(families))

	if opts.PerClass > 0 {
		for _, f := range families {
			counts[f] = opts.PerClass
		}
		return counts
	}

	base := opts.Total / len(families)
	rem := opts.Total % len(families)
	for _, f := range families {
		counts[f] = base
	}

	shuffled := make([]contracts.ErrorFamily, len(families))
	copy(shuffled, families)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	for i := 0; i < rem; i++ {
		counts[shuffled[i]]++
	}
	return counts
}

// render fills one template with random values and simulates a real-world
// paste by sometimes keeping only the tail of the traceback.
func render(template string, rng *rand.Rand) string {
	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }
	timeouts := []int{1, 2, 3, 5, 10}

	r := strings.NewReplacer(
		"{module}", pick(genModules),
		"{file}", pick(genFiles),
		"{line}", fmt.Sprintf("%d", 1+rng.Intn(250)),
		"{func}", pick(genFuncs),
		"{var}", pick(genVars),
		"{other}", pick(genVars),
		"{name}", pick(genNames),
		"{t1}", pick(genTypes),
		"{t2}", pick(genTypes),
		"{attr}", pick(genAttrs),
		"{dictname}", pick(genDicts),
		"{listname}", pick(genLists),
		"{key}", pick(genKeys),
		"{idx}", fmt.Sprintf("%d", rng.Intn(26)),
		"{s}", pick(genStrings),
		"{num}", fmt.Sprintf("%d", rng.Intn(1000)),
		"{path}", pick(genPaths),
		"{host}", pick(genHosts),
		"{url}", pick(genURLs),
		"{timeout}", fmt.Sprintf("%d", timeouts[rng.Intn(len(timeouts))]),
		"{bad_line}", pick(genBadLine),
	)

	return maybeTruncate(r.Replace(template), rng)
}

// maybeTruncate mimics how users paste errors: sometimes the full
// traceback, often just the last line or two.
func maybeTruncate(trace string, rng *rand.Rand) string {
	trace = strings.Trim(trace, "\n")
	lines := strings.Split(trace, "\n")
	if len(lines) <= 3 {
		return trace
	}

	switch r := rng.Float64(); {
	case r < 0.20:
		return lines[len(lines)-1]
	case r < 0.40:
		return strings.Join(lines[len(lines)-2:], "\n")
	case r < 0.55:
		if strings.HasPrefix(lines[0], "Traceback") {
			return strings.Join(lines[1:], "\n")
		}
	}
	return trace
}
