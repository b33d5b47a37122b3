package styles

// Human readable names for the most common declarations. Keys are lower case,
// lookups are done on lower cased declarations.
var canonicalClasses = map[string]string{
	"align-items: center;":                               "items-center",
	"align-items: start;":                                "items-start",
	"align-items: end;":                                  "items-end",
	"background-color: #ffffff;":                         "bg-white",
	"background-color: #000000;":                         "bg-black",
	"background-color: transparent;":                     "bg-transparent",
	"color: #000000;":                                    "text-black",
	"color: #ffffff;":                                    "text-white",
	"display: flex;":                                     "flex",
	"fill: none;":                                        "fill-none",
	"flex-direction: column;":                            "flex-col",
	"font-family: 'courier new', courier, monospace;":    "font-mono",
	"font-style: italic;":                                "italic",
	"font-weight: bold;":                                 "font-bold",
	"justify-content: start;":                            "justify-start",
	"justify-content: end;":                              "justify-end",
	"justify-content: center;":                           "justify-center",
	"text-align: center;":                                "text-center",
	"text-align: end;":                                   "text-end",
}
