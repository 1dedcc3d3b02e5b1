package access_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pathcaster/access"
)

// One shared Compiler serves every goroutine: compiles, memoized convention
// lookups, and the produced accessors must all be safe to use in parallel as
// long as each goroutine works on its own instances.
func TestCompilerConcurrentUse(t *testing.T) {
	c := access.NewCompiler(nil)

	cityPath := mustPath(t, reflect.TypeFor[*Order](), "Customer.Address.City")
	nickPath := mustPath(t, reflect.TypeFor[*Profile](), "GetNick()")

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()

			get, err := c.Getter(cityPath)
			if !assert.NoError(t, err) {
				return
			}
			safe, err := c.NilSafeGetter(cityPath)
			if !assert.NoError(t, err) {
				return
			}
			set, err := c.AllocSetter(cityPath)
			if !assert.NoError(t, err) {
				return
			}

			wp, err := c.WritablePath(nickPath)
			if !assert.NoError(t, err) {
				return
			}
			setNick, err := c.Setter(wp)
			if !assert.NoError(t, err) {
				return
			}

			city := fmt.Sprintf("City-%d", g)

			o := &Order{}
			set(o, city)
			assert.Equal(t, city, get(o))
			assert.Equal(t, "", safe(&Order{}))

			p := &Profile{}
			setNick(p, city)
			assert.Equal(t, city, p.GetNick())
		}(g)
	}
	wg.Wait()
}
