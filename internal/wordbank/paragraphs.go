package wordbank

import (
	"fmt"
	"regexp"
	"strings"
)

// Paragraph is a quiz text template with indexed placeholders {0}..{N-1}
type Paragraph struct {
	ID       int
	Title    string
	Theme    string
	Template string
}

var placeholderPattern = regexp.MustCompile(`\{(\d+)\}`)

// PlaceholderCount returns the number of distinct indexed placeholders in
// a template. Placeholders are expected to be {0}..{N-1}; the count is the
// highest index plus one.
func (p Paragraph) PlaceholderCount() int {
	highest := -1
	for _, match := range placeholderPattern.FindAllStringSubmatch(p.Template, -1) {
		var idx int
		fmt.Sscanf(match[1], "%d", &idx)
		if idx > highest {
			highest = idx
		}
	}
	return highest + 1
}

// RenderWithBlanks substitutes each placeholder with a numbered blank sized
// to the corresponding word's letter count.
func (p Paragraph) RenderWithBlanks(words []string) string {
	text := p.Template
	for i, word := range words {
		blank := fmt.Sprintf("[%d] %s", i+1, strings.Repeat("_", len(word)))
		text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i), blank)
	}
	return text
}

// RenderComplete substitutes each placeholder with the actual word,
// producing the full read-aloud text.
func (p Paragraph) RenderComplete(words []string) string {
	text := p.Template
	for i, word := range words {
		text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i), word)
	}
	return text
}

// Paragraphs returns the paragraph template pool
func Paragraphs() []Paragraph {
	return paragraphTemplates
}

// ParagraphsForThemes limits the pool to the given theme IDs.
// An empty slice means all themes.
func ParagraphsForThemes(themeIDs []string) []Paragraph {
	if len(themeIDs) == 0 {
		return paragraphTemplates
	}

	wanted := make(map[string]bool, len(themeIDs))
	for _, id := range themeIDs {
		wanted[strings.ToLower(id)] = true
	}

	var paragraphs []Paragraph
	for _, p := range paragraphTemplates {
		if wanted[p.Theme] {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

var paragraphTemplates = []Paragraph{
	{
		ID:    1,
		Title: "The School Adventure",
		Theme: "school",
		Template: `Last week, our class went on an exciting trip to the museum. The {0} guide explained how {1} civilizations lived thousands of years ago. We learned about their {2} customs and the {3} artifacts they left behind. The most {4} part was seeing the Egyptian mummies. Our teacher told us it was {5} to learn about different cultures. We had to be very {6} while walking through the exhibits because some items were extremely {7}. In the afternoon, we visited the science section where we discovered {8} facts about space exploration. The guide showed us how astronauts {9} with mission control. We also learned about the {10} of different planets and their {11} atmospheres. Before leaving, we wrote in our journals about the {12} experience. Everyone agreed it was much more {13} than we had expected. We felt very {14} to have such an amazing opportunity to learn outside the classroom.`,
	},
	{
		ID:    2,
		Title: "The Sports Day Challenge",
		Theme: "sports",
		Template: `The annual sports day was approaching, and everyone was feeling quite {0} about the upcoming events. Our PE teacher had been {1} us for weeks about the importance of fair play and good sportsmanship. Sarah was particularly {2} about the long jump competition. She had been {3} every day after school to improve her technique. Her {4} was to break the school record that had stood for five years. Meanwhile, Tom was feeling {5} about the relay race. He worried he might {6} his teammates if he dropped the baton. The coach reminded him that it was {7} to stay calm under pressure. On the day of the competition, the weather was {8}, with clear skies and a gentle breeze. The atmosphere was {9} as students cheered for their classmates. Teachers moved {10} between different events, ensuring everything ran smoothly. By the end of the day, everyone felt {11} with their efforts. The event had been a {12} success, bringing the whole school community together. Winners and participants alike showed {13} behavior, and many students discovered {14} talents they never knew they had.`,
	},
	{
		ID:    3,
		Title: "The Science Project",
		Theme: "science",
		Template: `For our science project, we had to investigate how plants grow under different conditions. This required {0} observation and careful recording of data over several weeks. First, we had to {1} our hypothesis about what factors might affect plant growth. Our teacher emphasized the importance of keeping {2} records of our observations. We planted seeds in {3} containers and placed them in different environments around the classroom. Some plants were given {4} amounts of water, while others received varying levels of sunlight. We measured their growth {5} and noted any changes in their appearance. After two weeks, the results were quite {6}. The plants that received {7} light and water grew much taller than those kept in darker conditions. We learned that plants need these {8} elements to survive and thrive. Writing up our conclusions was {9} because we had to explain our findings clearly. We included graphs and charts to make our data more {10} to understand. Our teacher was {11} with our thoroughness and attention to detail. This project taught us the importance of {12} investigation and how scientists work to understand the natural world. We felt {13} of our achievement and gained a {14} appreciation for the scientific method.`,
	},
	{
		ID:    4,
		Title: "The Community Garden",
		Theme: "community",
		Template: `Our neighborhood decided to create a community garden to bring people together and provide fresh vegetables for local families. The project required {0} planning and cooperation from many volunteers. Mrs. Johnson, who had {1} experience in gardening, agreed to lead the project. She explained that we needed to be {2} about which vegetables to plant in our climate. The soil had to be tested to ensure it contained {3} nutrients for healthy plant growth. The first challenge was clearing the overgrown plot of land. Everyone worked {4} to remove weeds and prepare the soil. Some community members brought their own tools, while others contributed by providing {5} supplies like seeds and fertilizer. Children from the local school were particularly {6} about helping with the project. They learned how to plant seeds at the {7} depth and spacing. Their teacher explained how this hands-on experience would {8} their understanding of biology. As weeks passed, the garden began to flourish. The {9} growth of the plants amazed everyone involved. Neighbors who had never spoken before found themselves working side by side, sharing {10} and gardening tips. The harvest celebration was a {11} event that brought the entire community together. Everyone agreed that the garden had been a {12} investment in bringing people together. The success of the project inspired plans for {13} expansion next year. The community had discovered that working together could create something truly {14} for everyone to enjoy.`,
	},
	{
		ID:    5,
		Title: "The Library Mystery",
		Theme: "library",
		Template: `The old town library held many secrets, and Emma was {0} to uncover them all. She spent her afternoons exploring the {1} sections, discovering books that hadn't been opened for decades. One particularly {2} afternoon, Emma noticed something unusual about one of the old wooden shelves. There appeared to be a {3} compartment hidden behind some dusty volumes. Her curiosity was immediately {4}, and she decided to investigate further. Carefully removing the books, she discovered a small wooden box containing {5} letters and photographs from the 1920s. The handwriting was {6}, but Emma managed to read several passages that described life in the town during that era. The letters revealed {7} stories about the library's founder, who had been a {8} supporter of education for all children. Emma learned that this person had donated their entire {9} collection to establish the public library. Excited by her discovery, Emma approached the head librarian, Mrs. Patterson, who was {10} amazed by the find. Together, they carefully examined each document, treating them with the {11} care they deserved. The library decided to create a special {12} to showcase Emma's discovery. The exhibition would help visitors understand the {13} heritage of their community. Emma felt {14} proud of her contribution to uncovering this piece of local history.`,
	},
}
