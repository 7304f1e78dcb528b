package session

// WelcomeName is the name of the document every session starts with.
const WelcomeName = "Welcome.md"

const welcomeContent = `
<h1>Welcome to Document Reader</h1>
<p>This is a study-focused viewer. We have hidden the code editor to help you focus.</p>
<h2>How to Highlight?</h2>
<p>1. <strong>Select any text</strong> with your mouse.</p>
<p>2. A floating menu will appear.</p>
<p>3. Pick a color to <span class="highlight-yellow">highlight</span> the text instantly.</p>
<h2>Math &amp; Code Support</h2>
<pre><code class="language-python">def study_hard():
return "Success"</code></pre>
<p>Math equation: $$E = mc^2$$</p>
`

// Seed returns a fresh session holding the welcome document.
func Seed() Session {
	return New(Document{Name: WelcomeName, Content: welcomeContent})
}
