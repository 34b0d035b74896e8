package web

import (
	"html/template"
	"io"

	"github.com/rutooro/translation-manager/internal/domain"
)

// Example is a prefilled input shown on the demo page.
type Example struct {
	Text      string
	Direction domain.Direction
}

// Examples are the inputs offered on the demo page.
var Examples = []Example{
	{Text: "How are you?", Direction: domain.EnglishToRutooro},
	{Text: "Oraire ota?", Direction: domain.RutooroToEnglish},
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>English ↔ Rutooro Translator</title>
</head>
<body>
<h1>English ↔ Rutooro Translator</h1>
<p>Translate between English and Rutooro.</p>
<form id="translate">
  <textarea name="text" rows="3" cols="60" placeholder="Enter text..."></textarea>
  <select name="direction">
  {{- range .Directions}}
    <option value="{{.}}">{{.}}</option>
  {{- end}}
  </select>
  <button type="submit">Translate</button>
</form>
<pre id="output"></pre>
<h2>Examples</h2>
<ul>
{{- range .Examples}}
  <li><a href="#" data-text="{{.Text}}" data-direction="{{.Direction}}">{{.Text}} ({{.Direction}})</a></li>
{{- end}}
</ul>
<script>
const form = document.getElementById("translate");
const output = document.getElementById("output");
form.addEventListener("submit", async (e) => {
  e.preventDefault();
  const body = {text: form.text.value, direction: form.direction.value};
  const resp = await fetch("/api/translate", {method: "POST", body: JSON.stringify(body)});
  const data = await resp.json();
  output.textContent = data.translation || data.error;
});
document.querySelectorAll("a[data-text]").forEach((a) => a.addEventListener("click", (e) => {
  e.preventDefault();
  form.text.value = a.dataset.text;
  form.direction.value = a.dataset.direction;
}));
</script>
</body>
</html>
`))

func renderIndex(w io.Writer) error {
	return indexTmpl.Execute(w, struct {
		Directions []domain.Direction
		Examples   []Example
	}{domain.Directions, Examples})
}
