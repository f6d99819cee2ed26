package scenarios

import "fmt"

// Page scripts are function bodies; the client wraps them before evaluation.

const pageInfoScript = `return {
	title: document.title,
	url: window.location.href,
	bodyText: document.body.innerText.substring(0, 100)
};`

func checkedScript(selector string) string {
	return fmt.Sprintf(`let el = document.querySelector(%q);
return el ? el.checked : false;`, selector)
}

const dropdownOptionsScript = `let select = document.querySelector('select');
if (!select) return [];
return Array.from(select.options).map(o => o.text);`

const dropdownSelectScript = `let select = document.querySelector('select');
select.value = select.options[1].value;
select.dispatchEvent(new Event('change', { bubbles: true }));
return select.options[select.selectedIndex].text;`

func inputValueScript(selector string) string {
	return fmt.Sprintf(`let el = document.querySelector(%q);
return el ? el.value : "not found";`, selector)
}

// dialogScripts intercept window.alert or window.confirm, press the
// matching button and read back the captured message.
type dialogScripts struct {
	capture string
	click   string
	read    string
}

func dialogScriptsFor(kind string) dialogScripts {
	return dialogScripts{
		capture: fmt.Sprintf(`window.captured_%[1]s = null;
window.%[1]s = function(msg) { window.captured_%[1]s = msg; return true; };
return true;`, kind),
		click: fmt.Sprintf(`let inputs = document.querySelectorAll('input[type="button"], input[type="submit"]');
for (let input of inputs) {
	if (input.value && input.value.toLowerCase().includes(%q)) {
		input.click();
		return true;
	}
}
return false;`, kind),
		read: fmt.Sprintf(`return window.captured_%[1]s || "No %[1]s triggered";`, kind),
	}
}

// pageHTMLScript serializes the live DOM for table extraction.
const pageHTMLScript = `return document.documentElement.outerHTML;`

func pressButtonScript(label string) string {
	return fmt.Sprintf(`for (let el of document.querySelectorAll('button, input, a')) {
	if ((el.value || el.textContent || '').trim() === %q) {
		el.click();
		return true;
	}
}
return false;`, label)
}

const visibilityScript = `let el = document.getElementById('displayed-text');
if (!el) {
	for (let candidate of document.querySelectorAll('*')) {
		if (candidate.textContent && candidate.textContent.includes('Displayed')) {
			el = candidate;
			break;
		}
	}
}
if (!el) return { error: 'Element not found' };
let style = window.getComputedStyle(el);
return {
	isVisible: el.offsetParent !== null,
	display: style.display,
	visibility: style.visibility
};`

const firstLinkScript = `let link = document.querySelector('a');
if (!link) return { linkFound: false };
let rect = link.getBoundingClientRect();
return {
	linkFound: true,
	linkText: link.textContent.trim().substring(0, 50),
	linkHref: link.href,
	xPos: Math.round(rect.left),
	yPos: Math.round(rect.top)
};`

const windowInfoScript = `return {
	currentUrl: window.location.href,
	windowTitle: document.title,
	windowName: window.name || 'main',
	frameCount: window.frames.length,
	hasOpener: window.opener !== null,
	isTopLevel: window.parent === window
};`

const windowCapabilitiesScript = `return {
	hasLocalStorage: typeof(Storage) !== 'undefined',
	hasSessionStorage: typeof(sessionStorage) !== 'undefined',
	hasIndexedDB: typeof(indexedDB) !== 'undefined',
	canOpenWindow: typeof(window.open) === 'function',
	canPostMessage: typeof(window.postMessage) === 'function',
	userAgent: navigator.userAgent.substring(0, 50),
	browserLanguage: navigator.language
};`

// suggestionField locates the autocomplete input; shared by the scripts below.
const suggestionField = `let field = null;
for (let input of document.querySelectorAll('input')) {
	let text = ((input.placeholder || '') + (input.id || '') + (input.name || '') + (input.className || '')).toLowerCase();
	if (text.includes('country') || text.includes('autocomplete') || text.includes('suggest') || text.includes('search')) {
		field = input;
		break;
	}
}
`

const suggestionFindScript = suggestionField + `if (!field) return { found: false };
return { found: true, placeholder: field.placeholder, id: field.id, name: field.name, type: field.type };`

func suggestionTypeScript(text string) string {
	return suggestionField + fmt.Sprintf(`if (!field) return { typed: false };
field.focus();
field.click();
field.value = %q;
field.dispatchEvent(new Event('input', { bubbles: true }));
field.dispatchEvent(new Event('change', { bubbles: true }));
field.dispatchEvent(new KeyboardEvent('keydown', { key: %q, bubbles: true }));
field.dispatchEvent(new KeyboardEvent('keyup', { key: %q, bubbles: true }));
return { typed: true, value: field.value };`, text, text[:1], text[:1])
}

func suggestionSelectScript(text string) string {
	return fmt.Sprintf(`let needle = %q.toLowerCase();
let items = document.querySelectorAll('[class*="suggest"], [class*="autocomplete"], ul li, .dropdown-item, [role="option"]');
for (let item of items) {
	if ((item.textContent || '').trim().toLowerCase().includes(needle)) {
		item.click();
		return { found: true, selectedText: item.textContent.trim().substring(0, 100), suggestions: items.length };
	}
}
return { found: false, suggestions: items.length };`, text)
}

func findButtonScript(label string) string {
	return fmt.Sprintf(`for (let el of document.querySelectorAll('button, input[type="button"], a')) {
	let text = (el.value || el.textContent || '').trim();
	if (text.toLowerCase().includes(%q)) {
		el.click();
		return { found: true, text: text.substring(0, 50), tag: el.tagName, url: window.location.href };
	}
}
return { found: false };`, label)
}
