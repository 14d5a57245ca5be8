package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognized(t *testing.T) {
	recognized := []string{"a.ts", "a.tsx", "a.mts", "a.cts", "a.js", "a.jsx", "a.mjs", "a.cjs", "src/deep/mod.ts"}
	for _, file := range recognized {
		assert.True(t, Recognized(file), "expected %q to be recognized", file)
	}

	rejected := []string{"a.css", "a.json", "a.d", "README", "styles.scss"}
	for _, file := range rejected {
		assert.False(t, Recognized(file), "expected %q to be rejected", file)
	}
}

func TestResolveLiteralPath(t *testing.T) {
	host := MapHost{
		"src/main.ts": "",
		"src/util.ts": "",
	}

	assert.Equal(t, "src/util.ts", Resolve(host, "src/main.ts", "./util.ts"))
}

func TestResolveProbesExtensionsInOrder(t *testing.T) {
	host := MapHost{
		"src/main.ts": "",
		"src/util.ts": "",
		"src/util.js": "",
	}

	// Both exist; .ts is probed before .js.
	assert.Equal(t, "src/util.ts", Resolve(host, "src/main.ts", "./util"))

	delete(host, "src/util.ts")
	assert.Equal(t, "src/util.js", Resolve(host, "src/main.ts", "./util"))
}

func TestResolveIndexFile(t *testing.T) {
	host := MapHost{
		"src/main.ts":      "",
		"src/lib/index.ts": "",
	}

	assert.Equal(t, "src/lib/index.ts", Resolve(host, "src/main.ts", "./lib"))
}

func TestResolveParentRelative(t *testing.T) {
	host := MapHost{
		"src/app/main.ts":    "",
		"src/shared/math.ts": "",
	}

	assert.Equal(t, "src/shared/math.ts", Resolve(host, "src/app/main.ts", "../shared/math"))
}

func TestResolveIgnoresPackageSpecifiers(t *testing.T) {
	host := MapHost{
		"src/main.ts": "",
		"react":       "",
	}

	assert.Equal(t, "", Resolve(host, "src/main.ts", "react"))
	assert.Equal(t, "", Resolve(host, "src/main.ts", "@scope/pkg"))
}

func TestResolveMissingFile(t *testing.T) {
	host := MapHost{"src/main.ts": ""}

	assert.Equal(t, "", Resolve(host, "src/main.ts", "./nowhere"))
}

func TestResolveUnrecognizedLiteralExtension(t *testing.T) {
	host := MapHost{
		"src/main.ts":    "",
		"src/styles.css": "",
	}

	// The file exists but only source extensions resolve.
	assert.Equal(t, "", Resolve(host, "src/main.ts", "./styles.css"))
}
