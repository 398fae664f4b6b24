package webserver

import "html/template"

// Templates are compiled in rather than shipped as asset files; the
// front end is a thin HTMX shell over the API.

const layoutTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}} | Recipify</title>
    <script src="https://unpkg.com/htmx.org@1.9.10"></script>
    <link rel="stylesheet" href="https://unpkg.com/sakura.css/css/sakura.css">
</head>
<body>
<nav>
    <a href="/ai/chef">AI Chef</a> |
    <a href="/recipes">Recipes</a> |
    <form method="post" action="/logout" style="display:inline"><input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRFToken}}"><button type="submit">Sign out</button></form>
</nav>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
{{end}}
{{define "foot"}}</body></html>{{end}}`

const loginTemplate = `{{define "login"}}{{template "head" .}}
<h1>Sign in</h1>
<form method="post" action="/login">
    <input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRFToken}}">
    <label>Email <input type="email" name="email" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
</form>
<p>No account yet? <a href="/register">Create one</a>.</p>
{{template "foot" .}}{{end}}`

const registerTemplate = `{{define "register"}}{{template "head" .}}
<h1>Create account</h1>
<form method="post" action="/register">
    <input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRFToken}}">
    <label>Name <input type="text" name="name" required></label>
    <label>Email <input type="email" name="email" required></label>
    <label>Password <input type="password" name="password" minlength="8" required></label>
    <button type="submit">Create account</button>
</form>
{{template "foot" .}}{{end}}`

const chatTemplate = `{{define "chat"}}{{template "head" .}}
<h1>AI Chef</h1>
<div id="chat-transcript">
{{range .Transcript}}{{.}}{{end}}
</div>
<form id="chat-form"
      hx-post="/htmx/ai/chef/message"
      hx-target="#chat-transcript"
      hx-swap="beforeend"
      hx-indicator="#chat-status"
      hx-headers='{"X-CSRFToken": "{{.CSRFToken}}"}'>
    <input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRFToken}}">
    <textarea name="prompt" rows="3" placeholder="What should I cook tonight?" required></textarea>
    <input type="text" name="dietary_requirements" placeholder="Dietary requirements (comma separated)">
    <button type="submit">Ask the chef</button>
</form>
<div id="chat-status" class="htmx-indicator"
     hx-get="/htmx/ai/chef/status?elapsed=0"
     hx-trigger="every 2s [document.querySelector('#chat-status.htmx-request')]"
     hx-swap="innerHTML"></div>
{{template "foot" .}}{{end}}`

const recipesTemplate = `{{define "recipes"}}{{template "head" .}}
<h1>Recipes</h1>
{{if not .Recipes}}<p>No published recipes yet. Ask the <a href="/ai/chef">AI Chef</a> for one.</p>{{end}}
<ul>
{{range .Recipes}}
    <li>
        <a href="{{.URL}}">{{.Title}}</a>
        {{if .AIGenerated}}<em>(AI generated)</em>{{end}}
    </li>
{{end}}
</ul>
{{template "foot" .}}{{end}}`

const recipeTemplate = `{{define "recipe"}}{{template "head" .}}
{{with .Recipe}}
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p>{{if .CookingTimeMinutes}}{{.CookingTimeMinutes}} minutes &middot; {{end}}serves {{.Servings}}</p>
<h2>Ingredients</h2>
<ul>{{range .Ingredients}}<li>{{.}}</li>{{end}}</ul>
<h2>Instructions</h2>
<ol>{{range .Instructions}}<li>{{.}}</li>{{end}}</ol>
{{end}}
{{template "foot" .}}{{end}}`

func parseTemplates() (*template.Template, error) {
	root := template.New("pages")
	for _, src := range []string{
		layoutTemplate,
		loginTemplate,
		registerTemplate,
		chatTemplate,
		recipesTemplate,
		recipeTemplate,
	} {
		if _, err := root.Parse(src); err != nil {
			return nil, err
		}
	}
	return root, nil
}
