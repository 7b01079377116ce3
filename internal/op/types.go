package op

// Wire shapes for the HAL+JSON payloads of the OpenProject API v3.
// Collections arrive as {"_embedded": {"elements": [...]}}; references
// live in "_links" with href paths ending in the referenced id.

type halLink struct {
	Href  string `json:"href,omitempty"`
	Title string `json:"title,omitempty"`
}

type formattedText struct {
	Format string `json:"format"`
	Raw    string `json:"raw"`
}

type namedElement struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type namedCollection struct {
	Embedded struct {
		Elements []namedElement `json:"elements"`
	} `json:"_embedded"`
}

type userElement struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type userCollection struct {
	Embedded struct {
		Elements []userElement `json:"elements"`
	} `json:"_embedded"`
}

type projectElement struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Links struct {
		Parent *halLink `json:"parent"`
	} `json:"_links"`
}

type projectCollection struct {
	Embedded struct {
		Elements []projectElement `json:"elements"`
	} `json:"_embedded"`
}

type workPackageElement struct {
	ID             int     `json:"id"`
	Subject        string  `json:"subject"`
	LockVersion    int     `json:"lockVersion"`
	PercentageDone *int    `json:"percentageDone"`
	DueDate        *string `json:"dueDate"`
	EstimatedTime  *string `json:"estimatedTime"`
	SpentTime      *string `json:"spentTime"`
	UpdatedAt      string  `json:"updatedAt"`
	Links          struct {
		Status   halLink  `json:"status"`
		Priority halLink  `json:"priority"`
		Project  halLink  `json:"project"`
		Assignee *halLink `json:"assignee"`
	} `json:"_links"`
}

type workPackageCollection struct {
	Embedded struct {
		Elements []workPackageElement `json:"elements"`
	} `json:"_embedded"`
}

type wpCreateLinks struct {
	Project  halLink `json:"project"`
	Type     halLink `json:"type"`
	Assignee halLink `json:"assignee"`
}

type wpCreateBody struct {
	Subject       string         `json:"subject"`
	EstimatedTime string         `json:"estimatedTime,omitempty"`
	DueDate       string         `json:"dueDate,omitempty"`
	Description   *formattedText `json:"description,omitempty"`
	Links         wpCreateLinks  `json:"_links"`
}

type wpPatchLinks struct {
	Status halLink `json:"status"`
}

type wpPatchBody struct {
	LockVersion    int            `json:"lockVersion"`
	Subject        *string        `json:"subject,omitempty"`
	Description    *formattedText `json:"description,omitempty"`
	DueDate        *string        `json:"dueDate,omitempty"`
	EstimatedTime  *string        `json:"estimatedTime,omitempty"`
	PercentageDone *int           `json:"percentageDone,omitempty"`
	Links          *wpPatchLinks  `json:"_links,omitempty"`
}

type timeEntryLinks struct {
	WorkPackage halLink `json:"workPackage"`
}

type timeEntryBody struct {
	Hours   string         `json:"hours"`
	Comment formattedText  `json:"comment"`
	SpentOn string         `json:"spentOn"`
	Links   timeEntryLinks `json:"_links"`
}

type membershipLinks struct {
	Project   halLink   `json:"project"`
	Principal halLink   `json:"principal"`
	Roles     []halLink `json:"roles"`
}

type membershipBody struct {
	Links membershipLinks `json:"_links"`
}

type apiErrorBody struct {
	ErrorIdentifier string `json:"errorIdentifier"`
	Message         string `json:"message"`
	Embedded        struct {
		Details struct {
			Attribute string `json:"attribute"`
		} `json:"details"`
	} `json:"_embedded"`
}
