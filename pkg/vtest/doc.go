// Package vtest provides testing helpers for vtree components.
//
// # Harness
//
// A Harness wires a runtime to a fresh document with a manual scheduler
// and a mutation recorder, so a test controls exactly when deferred
// renders happen and can count what they did to the host tree:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    root := h.Render(vdom.C(Counter))
//	    h.ExpectHTML("<button>0</button>")
//
//	    h.Reset()
//	    root.Dispatch(dom.NewEvent("click"))
//	    h.Flush()
//	    h.ExpectHTML("<button>1</button>")
//	    if h.Count(dom.OpSetText) != 1 {
//	        t.Error("expected a single text update")
//	    }
//	}
//
// Rendering the same description twice should leave the document alone:
//
//	h.Render(tree())
//	h.Reset()
//	h.Render(tree())
//	h.ExpectNoMutations()
//
// # Render Assertions
//
// For leaf components that only need their markup checked:
//
//	vtest.ExpectContains(t, resume.Header(basics), "Ada Lovelace")
//	vtest.ExpectAttribute(t, resume.Time(d), "datetime", "2020-01")
package vtest
