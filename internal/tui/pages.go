package tui

import "github.com/Swayam-the-coder/GRASP/internal/domain"

type field struct {
	key         string
	label       string
	placeholder string
}

type pageLayout struct {
	kind         domain.SourceKind
	nav          string
	title        string
	fields       []field
	instructions []string
	// warning shown when a question is asked before a source is loaded
	missing string
}

var homeLayout = pageLayout{
	nav:   "Home",
	title: "Generative Retrieval Augmented Search Platform",
	instructions: []string{
		"Welcome to GRASP.",
		"Explore and learn about each RAG method on its own page.",
		"Load a source on a page, then ask questions about it. Each page keeps its own source.",
	},
}

var sourcePages = map[domain.SourceKind]pageLayout{
	domain.SourcePDF: {
		kind:   domain.SourcePDF,
		nav:    "PDF",
		title:  "PDF RAG",
		fields: []field{{key: "path", label: "PDF file", placeholder: "/path/to/file.pdf"}},
		instructions: []string{
			"Enter the path of a PDF file and press Enter to index it.",
			"Ask a question about its content in the question box.",
		},
		missing: "Please upload a PDF file to ask questions.",
	},
	domain.SourceWeb: {
		kind:   domain.SourceWeb,
		nav:    "Web",
		title:  "Web RAG",
		fields: []field{{key: "url", label: "URL", placeholder: "https://en.wikipedia.org/wiki/Sky"}},
		instructions: []string{
			"Enter a web page URL and press Enter to fetch and index it.",
			"Only the main content regions of the page are kept.",
		},
		missing: "Please enter a URL to ask questions.",
	},
	domain.SourceText: {
		kind:   domain.SourceText,
		nav:    "Text",
		title:  "Text Document RAG",
		fields: []field{{key: "path", label: "Text file", placeholder: "/path/to/notes.txt"}},
		instructions: []string{
			"Enter the path of a plain text file and press Enter to index it.",
			"UTF-8 and UTF-16 (with BOM) files are supported.",
		},
		missing: "Please upload a text file to ask questions.",
	},
	domain.SourceAudio: {
		kind:   domain.SourceAudio,
		nav:    "Audio",
		title:  "Audio RAG",
		fields: []field{{key: "path", label: "Audio file", placeholder: "/path/to/clip.wav"}},
		instructions: []string{
			"Enter the path of a PCM WAV, AIFF/AIFF-C or FLAC clip and press Enter.",
			"The clip is transcribed and the transcript is indexed.",
		},
		missing: "Please upload an audio file to ask questions.",
	},
	domain.SourceDatabase: {
		kind:  domain.SourceDatabase,
		nav:   "Database",
		title: "Database RAG",
		fields: []field{
			{key: "dsn", label: "Database URL", placeholder: "sqlite://shop.db or mongodb://host/db"},
			{key: "table", label: "Table name", placeholder: "items"},
		},
		instructions: []string{
			"Enter a database URL and a table (or collection) name, then press Enter.",
			"The whole table is loaded and indexed as text.",
		},
		missing: "Please enter database credentials to ask questions.",
	},
	domain.SourceAPI: {
		kind:   domain.SourceAPI,
		nav:    "API",
		title:  "API RAG",
		fields: []field{{key: "url", label: "API URL", placeholder: "https://api.example.com/items.json"}},
		instructions: []string{
			"Enter the URL of a JSON endpoint and press Enter to fetch and index the response.",
		},
		missing: "Please enter an API URL to ask questions.",
	},
}
