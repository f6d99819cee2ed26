// Package harness runs a scenario: an ordered list of named steps against a
// single browser session.
//
// # Failure model
//
// Each step either returns a Verdict, which is recorded as a pass or a fail,
// or raises an error. Errors and panics in regular steps are recorded as a
// failed outcome and the run moves on. Glue steps (navigation, screenshots,
// page info) carry the rest of the run, so their errors abort it with a
// single "Critical Error" outcome. A launch failure aborts the same way.
//
// Finalization always runs: the session is closed exactly once, the recorder
// is finished, the report is rendered and handed to the Sink, and the hooks
// run. A failed Close is reported as *TeardownFailure after the report has
// been written.
//
// # Scenario Format
//
// Besides the built-in scenarios, runs can be described in YAML:
//
//	name: login
//	description: "Log in and check the flash message"
//	prefix: Login
//	steps:
//	  - name: Open login page
//	    navigate: https://the-internet.herokuapp.com/login
//	    wait_after: 1s
//	  - name: Username
//	    type: { selector: "#username", text: tomsmith }
//	  - name: Page heading
//	    evaluate: "return {value: document.querySelector('h2').innerText}"
//	    expect: { equals: "Login Page" }
//	  - name: final
//	    screenshot: final
//
// Files are decoded strictly (unknown fields are errors) and checked against
// an embedded CUE schema before they are compiled into a Plan.
package harness
