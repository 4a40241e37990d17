package web

import (
	"html/template"
	"strconv"
)

// Page template names.
const (
	itemsPage    = "items"
	itemPage     = "item"
	notFoundPage = "not_found"
	loginPage    = "login"
	addItemPage  = "add_item"
)

const layoutTemplate = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} | Simple Catalog</title>
</head>
<body>
    <nav>
        <a href="/items">Items</a>
        {{if .Email}}<a href="/add-item">Add Item</a>
        <form method="post" action="/logout" style="display:inline">
            <span>{{.Email}}</span>
            <button type="submit">Logout</button>
        </form>{{else}}<a href="/login">Login</a>{{end}}
    </nav>
    <main>
{{end}}
{{define "footer"}}    </main>
</body>
</html>
{{end}}`

const itemsTemplate = `{{define "items"}}{{template "header" .}}
        <h1>Our Products</h1>
        {{if .Items}}<ul class="items">
            {{range .Items}}<li>
                <a href="/items/{{.ID}}">
                    <img src="{{.Image}}" alt="{{.Name}}" width="200">
                    <h2>{{.Name}}</h2>
                </a>
                <p>{{.Description}}</p>
                <p class="price">{{price .Price}}</p>
            </li>
            {{end}}</ul>{{else}}<p>No items available.</p>{{end}}
{{template "footer" .}}{{end}}`

const itemTemplate = `{{define "item"}}{{template "header" .}}
        {{with .Item}}<article>
            <img src="{{.Image}}" alt="{{.Name}}" width="400">
            <h1>{{.Name}}</h1>
            <p>{{.Description}}</p>
            <p class="price">{{price .Price}}</p>
        </article>{{end}}
        <a href="/items">Back to items</a>
{{template "footer" .}}{{end}}`

const notFoundTemplate = `{{define "not_found"}}{{template "header" .}}
        <h1>Item not found</h1>
        <p>The item you are looking for does not exist.</p>
        <a href="/items">Back to items</a>
{{template "footer" .}}{{end}}`

const loginTemplate = `{{define "login"}}{{template "header" .}}
        <h1>Login</h1>
        {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
        <form method="post" action="/login">
            <input type="hidden" name="redirect" value="{{.Redirect}}">
            <label>Email <input type="email" name="email" value="{{.FormEmail}}" required></label>
            <label>Password <input type="password" name="password" required></label>
            <button type="submit">Sign in</button>
        </form>
{{template "footer" .}}{{end}}`

const addItemTemplate = `{{define "add_item"}}{{template "header" .}}
        <h1>Add New Item</h1>
        <p>Signed in as {{.Email}}</p>
        {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
        <form method="post" action="/add-item">
            <label>Name <input type="text" name="name" value="{{.Form.Name}}" required></label>
            <label>Description <textarea name="description" required>{{.Form.Description}}</textarea></label>
            <label>Price <input type="number" name="price" step="0.01" min="0.01" value="{{.Form.Price}}" required></label>
            <label>Image URL <input type="url" name="image" value="{{.Form.Image}}"></label>
            <button type="submit">Add Item</button>
        </form>
{{template "footer" .}}{{end}}`

// NewTemplates parses every page template.
func NewTemplates() *template.Template {
	funcs := template.FuncMap{
		"price": func(value float64) string {
			return "$" + strconv.FormatFloat(value, 'f', 2, 64)
		},
	}

	tmpl := template.New("pages").Funcs(funcs)
	for _, page := range []string{
		layoutTemplate,
		itemsTemplate,
		itemTemplate,
		notFoundTemplate,
		loginTemplate,
		addItemTemplate,
	} {
		template.Must(tmpl.Parse(page))
	}
	return tmpl
}
